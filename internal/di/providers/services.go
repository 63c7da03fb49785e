package providers

import (
	"github.com/samber/do/v2"

	"github.com/atticapp/attic-server/internal/api"
	"github.com/atticapp/attic-server/internal/logger"
	"github.com/atticapp/attic-server/internal/service"
)

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideEssayService provides the essay service.
func ProvideEssayService(i do.Injector) (*service.EssayService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEssayService(storeHandle.Store, log.Logger), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, log.Logger), nil
}

// ProvideQuoteService provides the quote service.
func ProvideQuoteService(i do.Injector) (*service.QuoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewQuoteService(storeHandle.Store, log.Logger), nil
}

// ProvideNoteService provides the note service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(storeHandle.Store, log.Logger), nil
}

// ProvideContentResolver provides the polymorphic content resolver.
func ProvideContentResolver(i do.Injector) (*service.ContentResolver, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	return service.NewContentResolver(storeHandle.Store), nil
}

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*service.ContentResolver](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollectionService(storeHandle.Store, resolver, log.Logger), nil
}

// ProvideStatsService provides the reading stats service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	return service.NewStatsService(storeHandle.Store), nil
}

// ProvideTodoService provides the in-memory todo service. The list lives as
// long as the container.
func ProvideTodoService(i do.Injector) (*service.TodoService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewTodoService(service.NewTodoStore(), log.Logger), nil
}

// ProvideServices bundles every service for the HTTP layer.
func ProvideServices(i do.Injector) (*api.Services, error) {
	return &api.Services{
		Tag:        do.MustInvoke[*service.TagService](i),
		Essay:      do.MustInvoke[*service.EssayService](i),
		Book:       do.MustInvoke[*service.BookService](i),
		Quote:      do.MustInvoke[*service.QuoteService](i),
		Note:       do.MustInvoke[*service.NoteService](i),
		Collection: do.MustInvoke[*service.CollectionService](i),
		Stats:      do.MustInvoke[*service.StatsService](i),
		Todo:       do.MustInvoke[*service.TodoService](i),
	}, nil
}
