package registry

import (
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/engine"
	"github.com/walteh/renamerc/pkg/matcher"
	"github.com/walteh/renamerc/pkg/planner"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidParams marks a parameter set that cannot form a valid request.
// It aborts the batch before any file is touched.
var ErrInvalidParams = errors.New("invalid operation parameters")

// 🏷️ RenameParams are the rename operation's inputs. Exactly one rule must
// be in effect: prefix/suffix (falling back to the configured defaults),
// a replace rule, or a format template.
type RenameParams struct {
	Root      string
	Pattern   *string
	Prefix    *string
	Suffix    *string
	Replace   *string
	Format    *string
	Exclude   *string
	Recursive *bool
	DryRun    *bool
	Backup    *bool
	OutputDir *string
}

// Request validates the params against the resolved config and builds the
// engine request.
func (p *RenameParams) Request(eff *config.Effective) (engine.Request, error) {
	prefix := orString(p.Prefix, eff.DefaultPrefix())
	suffix := orString(p.Suffix, eff.DefaultSuffix())

	hasPrefixSuffix := prefix != "" || suffix != ""
	hasReplace := p.Replace != nil && *p.Replace != ""
	hasFormat := p.Format != nil && *p.Format != ""

	rules := 0
	for _, set := range []bool{hasPrefixSuffix, hasReplace, hasFormat} {
		if set {
			rules++
		}
	}
	if rules == 0 {
		return engine.Request{}, errors.Errorf("%w: rename needs a prefix/suffix, replace rule, or format template", ErrInvalidParams)
	}
	if rules > 1 {
		return engine.Request{}, errors.Errorf("%w: prefix/suffix, replace, and format are mutually exclusive", ErrInvalidParams)
	}

	var op planner.Operation
	switch {
	case hasReplace:
		var err error
		op, err = planner.NewReplace(*p.Replace)
		if err != nil {
			return engine.Request{}, err
		}
	case hasFormat:
		op = planner.NewFormat(*p.Format)
	default:
		op = planner.NewPrefixSuffix(prefix, suffix)
	}

	if dir := orString(p.OutputDir, eff.OutputDir()); dir != "" {
		op = op.WithOutputDir(dir)
	}

	return engine.Request{
		Root:                p.Root,
		Pattern:             orString(p.Pattern, "*"),
		Excludes:            excludes(p.Exclude, eff),
		Recursive:           orBool(p.Recursive, eff.DefaultRecursive()),
		Operation:           op,
		Backup:              orBool(p.Backup, eff.AutoBackup()),
		BackupDir:           eff.BackupDir(),
		DryRun:              orBool(p.DryRun, eff.DefaultDryRun()),
		CopyInsteadOfRename: eff.CopyInsteadOfRename(),
	}, nil
}

// 🏷️ DeleteParams are the delete operation's inputs. The pattern is
// mandatory: deleting "everything by default" is not expressible.
type DeleteParams struct {
	Root      string
	Pattern   *string
	Exclude   *string
	Recursive *bool
	DryRun    *bool
	Backup    *bool
}

// Request validates the params against the resolved config and builds the
// engine request.
func (p *DeleteParams) Request(eff *config.Effective) (engine.Request, error) {
	if p.Pattern == nil || *p.Pattern == "" {
		return engine.Request{}, errors.Errorf("%w: delete requires an explicit pattern", ErrInvalidParams)
	}

	return engine.Request{
		Root:      p.Root,
		Pattern:   *p.Pattern,
		Excludes:  excludes(p.Exclude, eff),
		Recursive: orBool(p.Recursive, eff.DefaultRecursive()),
		Operation: planner.NewDelete(),
		Backup:    orBool(p.Backup, eff.AutoBackup()),
		BackupDir: eff.BackupDir(),
		DryRun:    orBool(p.DryRun, eff.DefaultDryRun()),
	}, nil
}

// excludes returns the exclusion patterns for the request. An explicit
// comma-separated option replaces the configured default patterns outright.
func excludes(raw *string, eff *config.Effective) []string {
	if raw != nil {
		return matcher.SplitExcludes(*raw)
	}
	return eff.ExcludePatterns()
}
