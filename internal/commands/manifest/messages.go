package manifestcmd

import (
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

const (
	buildManifestMessageType   = "contentjson.manifest.build"
	compileMarkdownMessageType = "contentjson.markdown.compile"
)

// BuildManifestCommand requests a full manifest rebuild.
type BuildManifestCommand struct {
	// DryRun assembles and validates the manifest without persisting it.
	DryRun bool `json:"dry_run,omitempty"`
	// Timeout overrides the handler timeout for this run. Zero keeps the default.
	Timeout time.Duration `json:"timeout,omitempty"`
	// ResultCallback receives the build summary after a successful run.
	ResultCallback func(*interfaces.BuildResult) `json:"-"`
}

// Type implements command.Message.
func (BuildManifestCommand) Type() string { return buildManifestMessageType }

// Validate rejects negative timeouts.
func (cmd BuildManifestCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Timeout, validation.Min(time.Duration(0))),
	)
}

// CompileMarkdownCommand compiles Markdown sources into article markup. An
// empty Files list compiles every discoverable source under the content root.
type CompileMarkdownCommand struct {
	// Files lists Markdown sources relative to the content root.
	Files []string `json:"files,omitempty"`
	// ResultCallback receives the compiled documents after a successful run.
	ResultCallback func([]*interfaces.CompiledDocument) `json:"-"`
}

// Type implements command.Message.
func (CompileMarkdownCommand) Type() string { return compileMarkdownMessageType }

// Validate ensures every listed file is a relative Markdown path inside the content root.
func (cmd CompileMarkdownCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Files, validation.Each(validation.By(validateMarkdownPath))),
	)
}

func validateMarkdownPath(value any) error {
	rel, _ := value.(string)
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return validation.NewError("contentjson.markdown.compile.file_required", "file path is required")
	}
	if strings.HasPrefix(rel, "/") || strings.Contains(rel, "\\") {
		return validation.NewError("contentjson.markdown.compile.file_relative", "file path must be relative to the content root")
	}
	clean := path.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return validation.NewError("contentjson.markdown.compile.file_outside_root", "file path escapes the content root")
	}
	if !strings.EqualFold(path.Ext(clean), ".md") {
		return validation.NewError("contentjson.markdown.compile.file_extension", "file must have a .md extension")
	}
	return nil
}
