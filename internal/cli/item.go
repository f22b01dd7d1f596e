package cli

import (
	"io"

	"github.com/at-ishikawa/glean/internal/learning"
)

// WriteItem prints item with its review history as YAML.
func WriteItem(output io.Writer, item learning.Item) error {
	return writeYAML(output, item)
}
