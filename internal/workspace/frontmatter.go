package workspace

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// docFrontmatter is the metadata block at the top of a document file.
// Include and Order are pointers so absent keys can fall back to their
// defaults: included, and the file's place in the directory listing.
type docFrontmatter struct {
	Title    string   `yaml:"title"`
	Synopsis string   `yaml:"synopsis,omitempty"`
	Notes    string   `yaml:"notes,omitempty"`
	Label    string   `yaml:"label,omitempty"`
	Status   string   `yaml:"status,omitempty"`
	Keywords []string `yaml:"keywords,omitempty,flow"`
	Include  *bool    `yaml:"include,omitempty"`
	Created  string   `yaml:"created,omitempty"`
	Order    *int     `yaml:"order,omitempty"`
	Target   int      `yaml:"target,omitempty"`
	Icon     string   `yaml:"icon,omitempty"`
}

// folderManifest is the folder.yaml sidecar inside each directory.
type folderManifest struct {
	Title   string `yaml:"title"`
	Created string `yaml:"created,omitempty"`
}

// projectManifest is project.yaml at the workspace root.
type projectManifest struct {
	Title         string          `yaml:"title"`
	Author        string          `yaml:"author,omitempty"`
	DraftTarget   int             `yaml:"draft_target,omitempty"`
	SessionTarget int             `yaml:"session_target,omitempty"`
	Labels        []labelManifest `yaml:"labels,omitempty"`
	Statuses      []string        `yaml:"statuses,omitempty"`
}

type labelManifest struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color,omitempty"`
}

// splitFrontmatter separates the YAML block from the markdown body.
// ok is false when the file does not start with a frontmatter fence;
// the whole content is then the body.
func splitFrontmatter(content []byte) (meta []byte, body string, ok bool) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, string(content), false
	}

	lines := bytes.Split(content, []byte("\n"))
	closing := 0
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			closing = i
			break
		}
	}
	if closing == 0 {
		return nil, string(content), false
	}

	meta = bytes.Join(lines[1:closing], []byte("\n"))
	body = string(bytes.Join(lines[closing+1:], []byte("\n")))
	body = trimLeadingBlank(body)
	return meta, body, true
}

// trimLeadingBlank drops the single blank line buildDocFile places
// between the fence and the body.
func trimLeadingBlank(body string) string {
	if len(body) > 0 && body[0] == '\n' {
		return body[1:]
	}
	if len(body) > 1 && body[0] == '\r' && body[1] == '\n' {
		return body[2:]
	}
	return body
}

// buildDocFile renders a document file: fenced frontmatter, one blank
// line, then the markdown body.
func buildDocFile(fm *docFrontmatter, body string) ([]byte, error) {
	meta, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(body)
	if len(body) > 0 && !bytes.HasSuffix(b.Bytes(), []byte("\n")) {
		b.WriteString("\n")
	}
	return b.Bytes(), nil
}
