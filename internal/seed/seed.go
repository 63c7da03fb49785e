// Package seed fills an empty attic with a small sample library. Everything
// goes through the services, so seeded content obeys the same validation and
// derivation rules as content created over HTTP.
package seed

import (
	"context"
	"fmt"

	"github.com/atticapp/attic-server/internal/api"
	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/service"
)

// Summary counts what Run created.
type Summary struct {
	Tags            int
	Essays          int
	Books           int
	Highlights      int
	Quotes          int
	Notes           int
	Collections     int
	CollectionItems int
}

func ptr[T any](v T) *T { return &v }

type tagSeed struct {
	name  string
	color string
}

var tags = []tagSeed{
	{"Philosophy", "#8B5CF6"},
	{"Literature", "#F59E0B"},
	{"Psychology", "#EF4444"},
	{"Comics", "#3B82F6"},
	{"Self-Improvement", "#F97316"},
	{"Fiction", "#EC4899"},
	{"Non-Fiction", "#14B8A6"},
	{"Wisdom", "#8B5CF6"},
	{"Introversion", "#10B981"},
	{"Trust", "#EF4444"},
	{"Personal Growth", "#8B5CF6"},
}

type essaySeed struct {
	title, subtitle, excerpt, content string
	readTime                          int
	tags                              []string
}

var essays = []essaySeed{
	{
		title:    "The Solitude Paradox",
		subtitle: "Finding strength in being alone without feeling lonely",
		excerpt:  "Exploring the difference between loneliness and intentional solitude, and why creating space for ourselves is essential for mental clarity and creativity.",
		content: `# The Solitude Paradox

In a world that celebrates extroversion and constant connection, choosing solitude often feels like a radical act. Yet there is a profound difference between loneliness and solitude: one depletes us, the other replenishes.

## The Art of Being Alone

Solitude is not about isolation; it is about intentional space. It is the quiet room where our thoughts can finally breathe.

## Finding Balance

The challenge is not to retreat completely, but to be present with others when we choose to connect, and fully present with ourselves when we choose to be alone.`,
		readTime: 7,
		tags:     []string{"Introversion", "Personal Growth"},
	},
	{
		title:    "Rebuilding Trust After Betrayal",
		subtitle: "Navigating the painful journey from deception to cautious hope",
		excerpt:  "A personal reflection on dealing with betrayal, rebuilding self-trust, and learning to navigate relationships with healthier boundaries.",
		content: `# Rebuilding Trust After Betrayal

Trust is fragile. It is built slowly over time but shattered in an instant, and a broken trust can shake our faith in our own judgment.

## Learning to Trust Again

Rebuilding trust is not about forgetting; it is about integrating the lesson while remaining open, setting better boundaries and listening to intuition.`,
		readTime: 6,
		tags:     []string{"Trust", "Psychology"},
	},
	{
		title:    "Why Batman Resonates With the Introverted Mind",
		subtitle: "The appeal of the Dark Knight for those who prefer solitude",
		excerpt:  "Exploring why Batman's character resonates deeply with introverts and those who find strength in solitude and preparation.",
		content: `# Why Batman Resonates With the Introverted Mind

Batman does not have superpowers; he has discipline, intelligence and a profound understanding of darkness.

## The Power of Preparation

His greatest strength is meticulous preparation. That appeals to those of us who prefer thinking things through before acting.

## Embracing the Shadows

He does not need validation or applause. His satisfaction comes from doing what is right, regardless of recognition.`,
		readTime: 5,
		tags:     []string{"Comics", "Introversion"},
	},
}

type highlightSeed struct {
	text string
	page int
}

type bookSeed struct {
	title, author, isbn string
	pages, year         int
	progress            int
	rating              *int
	highlights          []highlightSeed
	tags                []string
}

var books = []bookSeed{
	{
		title: "Wuthering Heights", author: "Emily Brontë", isbn: "9780141439556",
		pages: 416, year: 1847, progress: 100, rating: ptr(5),
		highlights: []highlightSeed{
			{"He's more myself than I am. Whatever our souls are made of, his and mine are the same.", 82},
			{"I have not broken your heart - you have broken it; and in breaking it, you have broken mine.", 158},
			{"If all else perished, and he remained, I should still continue to be.", 203},
		},
		tags: []string{"Literature", "Fiction"},
	},
	{
		title: "The Art of Being Alone", author: "Renuka Gavrani", isbn: "9789390997343",
		pages: 192, year: 2021, progress: 100, rating: ptr(4),
		highlights: []highlightSeed{
			{"Loneliness is the pain of being alone. Solitude is the joy of being alone.", 27},
			{"Your relationship with yourself sets the tone for every other relationship you have.", 63},
			{"In silence, we don't find emptiness; we find ourselves.", 112},
		},
		tags: []string{"Self-Improvement", "Introversion"},
	},
	{
		title: "Batman: Year One", author: "Frank Miller", isbn: "9781401233420",
		pages: 144, year: 1987, progress: 75,
		highlights: []highlightSeed{
			{"I shall become a bat.", 32},
			{"The rain on my chest is a baptism. I'm born again.", 45},
			{"We can finally start to do some real good.", 89},
		},
		tags: []string{"Comics", "Fiction"},
	},
	{
		title: "All-Star Superman", author: "Grant Morrison", isbn: "9781401232119",
		pages: 160, year: 2011, progress: 100, rating: ptr(5),
		highlights: []highlightSeed{
			{"You're much stronger than you think you are. Trust me.", 56},
			{"Everything you've ever loved, everything you've ever been... It's all still there.", 78},
			{"You've got a million chances. That's all you need.", 122},
		},
		tags: []string{"Comics", "Fiction"},
	},
}

type quoteSeed struct {
	content, author, source, context string
	page                             *int
	book                             string // title of a seeded book, if any
	tags                             []string
}

var quotes = []quoteSeed{
	{
		content: "Whatever our souls are made of, his and mine are the same.",
		author:  "Emily Brontë", source: "Wuthering Heights", page: ptr(82), book: "Wuthering Heights",
		context: "Catherine Earnshaw describing her connection to Heathcliff.",
		tags:    []string{"Literature"},
	},
	{
		content: "Loneliness is the pain of being alone. Solitude is the joy of being alone.",
		author:  "Renuka Gavrani", source: "The Art of Being Alone", page: ptr(27), book: "The Art of Being Alone",
		context: "The distinction between loneliness and solitude.",
		tags:    []string{"Introversion"},
	},
	{
		content: "It's not who I am underneath, but what I do that defines me.",
		author:  "Batman", source: "Batman Begins",
		context: "Actions matter more than intentions or identity.",
		tags:    []string{"Comics"},
	},
	{
		content: "You're much stronger than you think you are. Trust me.",
		author:  "Superman", source: "All-Star Superman", page: ptr(56), book: "All-Star Superman",
		context: "His greatest power is compassion, not strength.",
		tags:    []string{"Comics"},
	},
	{
		content: "Trust takes years to build, seconds to break, and forever to repair.",
		author:  "Unknown", source: "Unknown",
		context: "The fragility of trust.",
		tags:    []string{"Trust"},
	},
	{
		content: "The strongest people are not those who show strength in front of us but those who win battles we know nothing about.",
		author:  "Unknown", source: "Unknown",
		context: "Everyone is fighting hidden battles.",
	},
	{
		content: "In silence, we don't find emptiness; we find ourselves.",
		author:  "Renuka Gavrani", source: "The Art of Being Alone", page: ptr(112), book: "The Art of Being Alone",
		context: "Why solitude can be so revealing.",
		tags:    []string{"Introversion"},
	},
}

type noteSeed struct {
	title   *string
	content string
	status  domain.PublishStatus
	tags    []string
}

var notes = []noteSeed{
	{
		title: ptr("On Trust and Betrayal"),
		content: `# Thoughts on Trust

Trust is like a mirror: once broken, you can piece it back together, but the cracks will always be visible.

- How do you rebuild trust without being naive?
- When is forgiveness wise, and when is it self-betrayal?`,
		status: domain.StatusDraft,
		tags:   []string{"Trust", "Psychology"},
	},
	{
		title: ptr("Why I Relate to Batman"),
		content: `# Batman as an Introvert Icon

- Values preparation over impulsivity
- Comfortable operating in the background
- Finds strength in solitude rather than fearing it`,
		status: domain.StatusPublished,
		tags:   []string{"Comics", "Introversion"},
	},
	{
		title: ptr("Solitude Practices That Work For Me"),
		content: `# Intentional Alone Time

- First hour of the day: no phone, no internet
- Two or three evenings a week of deep reading
- Walking without podcasts or music`,
		status: domain.StatusPublished,
		tags:   []string{"Introversion"},
	},
	{
		content: "Quick thought: Wuthering Heights feels like visiting a haunted house where the ghosts are emotions too intense to fade away.",
		status:  domain.StatusPublished,
		tags:    []string{"Literature"},
	},
}

type itemSeed struct {
	kind  domain.ContentType
	title string // essay, book or note title, or quote content
}

type collectionSeed struct {
	name, description string
	public            bool
	tags              []string
	items             []itemSeed
}

var collections = []collectionSeed{
	{
		name:        "On Solitude",
		description: "Essays, books, and quotes about the value of alone time and inner strength",
		public:      true,
		tags:        []string{"Introversion"},
		items: []itemSeed{
			{domain.ContentBook, "The Art of Being Alone"},
			{domain.ContentEssay, "The Solitude Paradox"},
			{domain.ContentQuote, "In silence, we don't find emptiness; we find ourselves."},
			{domain.ContentNote, "Solitude Practices That Work For Me"},
		},
	},
	{
		name:        "Comics That Made Me Think",
		description: "Graphic novels and comics that offered surprising depth and insight",
		public:      true,
		tags:        []string{"Comics"},
		items: []itemSeed{
			{domain.ContentBook, "Batman: Year One"},
			{domain.ContentBook, "All-Star Superman"},
			{domain.ContentEssay, "Why Batman Resonates With the Introverted Mind"},
		},
	},
	{
		name:        "Trust & Relationships",
		description: "Resources for understanding trust, betrayal, and healthy boundaries",
		tags:        []string{"Trust"},
		items: []itemSeed{
			{domain.ContentEssay, "Rebuilding Trust After Betrayal"},
			{domain.ContentNote, "On Trust and Betrayal"},
		},
	},
}

// seeder carries name -> id lookups between phases.
type seeder struct {
	svc     *api.Services
	sum     Summary
	tagIDs  map[string]string
	content map[domain.ContentType]map[string]string
}

// Run creates the sample library. It does not clear existing content; a
// second run on the same database fails on the first duplicate tag name.
func Run(ctx context.Context, svc *api.Services) (Summary, error) {
	s := &seeder{
		svc:    svc,
		tagIDs: make(map[string]string),
		content: map[domain.ContentType]map[string]string{
			domain.ContentEssay: {},
			domain.ContentBook:  {},
			domain.ContentQuote: {},
			domain.ContentNote:  {},
		},
	}

	phases := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"tags", s.seedTags},
		{"essays", s.seedEssays},
		{"books", s.seedBooks},
		{"quotes", s.seedQuotes},
		{"notes", s.seedNotes},
		{"collections", s.seedCollections},
	}
	for _, p := range phases {
		if err := p.fn(ctx); err != nil {
			return s.sum, fmt.Errorf("seed %s: %w", p.name, err)
		}
	}
	return s.sum, nil
}

func (s *seeder) tagsFor(names []string) []string {
	ids := make([]string, 0, len(names))
	for _, n := range names {
		ids = append(ids, s.tagIDs[n])
	}
	return ids
}

func (s *seeder) seedTags(ctx context.Context) error {
	for _, t := range tags {
		tag, err := s.svc.Tag.CreateTag(ctx, service.CreateTagRequest{Name: t.name, Color: ptr(t.color)})
		if err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}
		s.tagIDs[t.name] = tag.ID
		s.sum.Tags++
	}
	return nil
}

func (s *seeder) seedEssays(ctx context.Context) error {
	for _, e := range essays {
		essay, err := s.svc.Essay.CreateEssay(ctx, service.CreateEssayRequest{
			Title:    e.title,
			Subtitle: ptr(e.subtitle),
			Content:  e.content,
			Excerpt:  ptr(e.excerpt),
			ReadTime: ptr(e.readTime),
			TagIDs:   s.tagsFor(e.tags),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", e.title, err)
		}
		s.content[domain.ContentEssay][e.title] = essay.ID
		s.sum.Essays++
	}
	return nil
}

func (s *seeder) seedBooks(ctx context.Context) error {
	for _, b := range books {
		book, err := s.svc.Book.CreateBook(ctx, service.CreateBookRequest{
			Title:         b.title,
			Author:        b.author,
			ISBN:          ptr(b.isbn),
			Pages:         ptr(b.pages),
			PublishedYear: ptr(b.year),
			TagIDs:        s.tagsFor(b.tags),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", b.title, err)
		}

		if _, err := s.svc.Book.UpdateReadingProgress(ctx, book.ID, service.UpdateProgressRequest{
			Progress: b.progress,
			Rating:   b.rating,
		}); err != nil {
			return fmt.Errorf("%s progress: %w", b.title, err)
		}

		for _, h := range b.highlights {
			if _, err := s.svc.Book.AddHighlight(ctx, book.ID, service.AddHighlightRequest{Text: h.text, Page: h.page}); err != nil {
				return fmt.Errorf("%s highlight: %w", b.title, err)
			}
			s.sum.Highlights++
		}

		s.content[domain.ContentBook][b.title] = book.ID
		s.sum.Books++
	}
	return nil
}

func (s *seeder) seedQuotes(ctx context.Context) error {
	for _, q := range quotes {
		req := service.CreateQuoteRequest{
			Content: q.content,
			Author:  ptr(q.author),
			Source:  ptr(q.source),
			Context: ptr(q.context),
			Page:    q.page,
			TagIDs:  s.tagsFor(q.tags),
		}
		if q.book != "" {
			req.BookID = ptr(s.content[domain.ContentBook][q.book])
		}

		quote, err := s.svc.Quote.CreateQuote(ctx, req)
		if err != nil {
			return fmt.Errorf("%q: %w", q.content, err)
		}
		s.content[domain.ContentQuote][q.content] = quote.ID
		s.sum.Quotes++
	}
	return nil
}

func (s *seeder) seedNotes(ctx context.Context) error {
	for _, n := range notes {
		note, err := s.svc.Note.CreateNote(ctx, service.CreateNoteRequest{
			Title:   n.title,
			Content: n.content,
			Status:  ptr(n.status),
			TagIDs:  s.tagsFor(n.tags),
		})
		if err != nil {
			return err
		}
		if n.title != nil {
			s.content[domain.ContentNote][*n.title] = note.ID
		}
		s.sum.Notes++
	}
	return nil
}

func (s *seeder) seedCollections(ctx context.Context) error {
	for _, c := range collections {
		coll, err := s.svc.Collection.CreateCollection(ctx, service.CreateCollectionRequest{
			Name:        c.name,
			Description: ptr(c.description),
			IsPublic:    ptr(c.public),
			TagIDs:      s.tagsFor(c.tags),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		s.sum.Collections++

		for _, it := range c.items {
			contentID, ok := s.content[it.kind][it.title]
			if !ok {
				return fmt.Errorf("%s: no seeded %s %q", c.name, it.kind, it.title)
			}
			if _, err := s.svc.Collection.AddItem(ctx, coll.ID, service.AddItemRequest{
				ContentType: it.kind,
				ContentID:   contentID,
			}); err != nil {
				return fmt.Errorf("%s item %q: %w", c.name, it.title, err)
			}
			s.sum.CollectionItems++
		}
	}
	return nil
}
