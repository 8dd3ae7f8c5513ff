package naming_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"docshelf/internal/config"
	"docshelf/internal/logging"
	"docshelf/internal/naming"
)

var fallbackPattern = regexp.MustCompile(`^document_\d{8}_\d{6}$`)

type stubRemote struct {
	name string
	err  error
}

func (s *stubRemote) GenerateName(context.Context, string) (string, error) {
	return s.name, s.err
}

func heuristicService() *naming.Service {
	return naming.NewServiceWithRemote(config.NamingModeHeuristic, nil, logging.NewNop())
}

func TestGenerateHeuristicUsesKeywords(t *testing.T) {
	svc := heuristicService()
	name := svc.Generate(context.Background(), "The annual budget review covers infrastructure spending priorities", "doc.pdf")
	if name != "Annual_Budget_Review" {
		t.Fatalf("name = %q", name)
	}
}

func TestGenerateHeuristicSkipsStopWordsAndDuplicates(t *testing.T) {
	svc := heuristicService()
	name := svc.Generate(context.Background(), "that should would could project project alpha timeline", "doc.txt")
	if name != "Project_Alpha_Timeline" {
		t.Fatalf("name = %q", name)
	}
}

func TestGenerateHeuristicFallsBackToFirstWords(t *testing.T) {
	svc := heuristicService()
	// No runs of 4+ letters, so the first raw words are used.
	name := svc.Generate(context.Background(), "a b1 c2 d3 e4", "doc.txt")
	if name != "A_B1_C2" {
		t.Fatalf("name = %q", name)
	}
}

func TestGenerateEmptyContentUsesTimestampFallback(t *testing.T) {
	svc := heuristicService()
	for _, content := range []string{"", "   ", "\n\t"} {
		name := svc.Generate(context.Background(), content, "doc.pdf")
		if !fallbackPattern.MatchString(name) {
			t.Fatalf("fallback name = %q", name)
		}
	}
}

func TestGenerateSymbolOnlyContentUsesFallback(t *testing.T) {
	svc := heuristicService()
	name := svc.Generate(context.Background(), "!!! ??? ***", "doc.pdf")
	if !fallbackPattern.MatchString(name) {
		t.Fatalf("fallback name = %q", name)
	}
}

func TestGenerateRemoteSuccess(t *testing.T) {
	svc := naming.NewServiceWithRemote(config.NamingModeRemote, &stubRemote{name: "Invoice_March_2024"}, logging.NewNop())
	if svc.Mode() != config.NamingModeRemote {
		t.Fatalf("mode = %q", svc.Mode())
	}
	name := svc.Generate(context.Background(), "invoice for march", "scan.pdf")
	if name != "Invoice_March_2024" {
		t.Fatalf("name = %q", name)
	}
}

func TestGenerateRemoteErrorDegradesToFallback(t *testing.T) {
	svc := naming.NewServiceWithRemote(config.NamingModeRemote, &stubRemote{err: errors.New("endpoint down")}, logging.NewNop())
	name := svc.Generate(context.Background(), "real content here", "scan.pdf")
	if !fallbackPattern.MatchString(name) {
		t.Fatalf("expected fallback, got %q", name)
	}
}

func TestGenerateRemoteEmptyCompletionDegradesToFallback(t *testing.T) {
	svc := naming.NewServiceWithRemote(config.NamingModeRemote, &stubRemote{name: ""}, logging.NewNop())
	name := svc.Generate(context.Background(), "real content here", "scan.pdf")
	if !fallbackPattern.MatchString(name) {
		t.Fatalf("expected fallback, got %q", name)
	}
}

func TestNewServiceDowngradesWithoutCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.Naming.Mode = config.NamingModeRemote
	cfg.Naming.APIKey = ""
	svc := naming.NewService(&cfg, logging.NewNop())
	if svc.Mode() != config.NamingModeHeuristic {
		t.Fatalf("mode = %q, want permanent heuristic downgrade", svc.Mode())
	}
	// Downgraded service still names content locally.
	name := svc.Generate(context.Background(), "network capacity planning notes", "notes.txt")
	if name != "Network_Capacity_Planning" {
		t.Fatalf("name = %q", name)
	}
}

func TestGenerateNeverReturnsForbiddenCharacters(t *testing.T) {
	svc := heuristicService()
	samples := []string{
		"path/to:file*name?with<bad>chars",
		"completely ordinary prose about migrating database schemas",
		"short",
		"1234 5678 9012",
	}
	for _, sample := range samples {
		name := svc.Generate(context.Background(), sample, "f.txt")
		if name == "" {
			t.Fatalf("empty name for %q", sample)
		}
		if strings.ContainsAny(name, `/\:*?"<>| `) {
			t.Fatalf("name %q contains forbidden characters", name)
		}
	}
}
