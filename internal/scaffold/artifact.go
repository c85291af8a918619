package scaffold

import (
	"os"
	"strings"
)

// Artifact is one generated file, addressed relative to the execution context
// it is written into.
type Artifact struct {
	RelPath string
	Content string
	Mode    os.FileMode
}

// Bytes returns the content with a guaranteed trailing newline.
func (a Artifact) Bytes() []byte {
	if strings.HasSuffix(a.Content, "\n") {
		return []byte(a.Content)
	}
	return []byte(a.Content + "\n")
}

func newArtifact(relPath, content string) Artifact {
	return Artifact{RelPath: relPath, Content: content, Mode: 0644}
}
