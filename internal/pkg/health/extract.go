package health

import (
	"github.com/tippmixmentor/tippmix/internal/pkg/health/handlers"
)

// RegisterExtractor installs the function serving POST /extract. Results it
// returns replace the stored result.
func RegisterExtractor(fn handlers.ExtractFunc) {
	handlers.SetExtractFunc(fn)
}
