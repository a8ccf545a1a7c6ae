package session

import (
	"context"
	"sync"

	"github.com/coderRohan123/tempdescription/internal/domain"
)

// Test doubles for the service contracts. Blocking variants coordinate via
// channels so in-flight guards can be exercised deterministically.

type fakeGenerator struct {
	mu         sync.Mutex
	text       string
	err        error
	calls      int
	lastAttrs  domain.GenerationAttributes
	lastImages []string

	started chan struct{}
	release chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, attrs domain.GenerationAttributes, images []string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.lastAttrs = attrs
	g.lastImages = images
	started, release := g.started, g.release
	text, err := g.text, g.err
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	return text, err
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeTranslator struct {
	mu        sync.Mutex
	results   map[string]string
	err       error
	calls     int
	lastText  string
	lastLangs []string
}

func (t *fakeTranslator) Translate(ctx context.Context, description string, languages []string) (map[string]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	t.lastText = description
	t.lastLangs = append([]string(nil), languages...)
	return t.results, t.err
}

type fakeStore struct {
	mu sync.Mutex

	saveResult SaveResult
	saveErr    error
	saveCalls  int
	lastAttrs  domain.GenerationAttributes
	lastText   string
	lastURLs   []string

	records  []domain.Generation
	listErr  error
	listHook func() []domain.Generation

	deleteErr   error
	deleteCalls int
	deletedID   string
}

func (s *fakeStore) SaveGeneration(ctx context.Context, attrs domain.GenerationAttributes, finalDescription string, imageURLs []string) (SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	s.lastAttrs = attrs
	s.lastText = finalDescription
	s.lastURLs = append([]string(nil), imageURLs...)
	return s.saveResult, s.saveErr
}

func (s *fakeStore) ListGenerations(ctx context.Context) ([]domain.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.listHook != nil {
		return s.listHook(), nil
	}
	return append([]domain.Generation(nil), s.records...), nil
}

func (s *fakeStore) DeleteGeneration(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	s.deletedID = id
	return s.deleteErr
}

type fakeAuth struct {
	authenticated bool
}

func (a *fakeAuth) IsAuthenticated() bool {
	return a.authenticated
}

type fakeClipboard struct {
	written []string
	err     error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.written = append(c.written, text)
	return nil
}

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fakeConfirmer) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

func testAttrs() domain.GenerationAttributes {
	return domain.GenerationAttributes{
		ProductName:     "Ceramic Mug",
		ProductCategory: "Home & Garden",
		TargetAudience:  "adults",
		UserDescription: "Hand-glazed, 350ml",
		TargetLanguage:  "English",
	}
}

func testRecord(id, name string) domain.Generation {
	return domain.Generation{
		ID:               id,
		UserID:           "user-1",
		ProductName:      name,
		ProductCategory:  "Electronics",
		TargetAudience:   "professionals",
		UserDescription:  "original notes",
		TargetLanguage:   "English",
		ImageURLs:        domain.StringArray{},
		FinalDescription: "Original description for " + name,
	}
}
