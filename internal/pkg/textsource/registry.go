package textsource

import (
	"sort"
	"strings"
	"sync"

	"github.com/tippmixmentor/tippmix/internal/pkg/config"
)

type Factory func(cfg *config.ExtractorConfig) Source

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	Register("pdf", func(*config.ExtractorConfig) Source { return NewPDFSource() })
	Register("pdftotext", func(cfg *config.ExtractorConfig) Source { return NewPdftotextSource(cfg.PdftotextPath) })
	Register("text", func(*config.ExtractorConfig) Source { return NewTextSource() })
}

func Register(name string, f Factory) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		panic("textsource: empty name in Register")
	}
	if f == nil {
		panic("textsource: nil factory in Register for " + n)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[n]; exists {
		panic("textsource: duplicate registration for " + n)
	}
	registry[n] = f
}

func FactoryByName(name string) (Factory, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[n]
	return f, ok
}

func AvailableNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
