// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Issue ids. The zero Id means "unclassified".
const (
	UnspecifiedCommandId Id = iota + 1
	UnknownCommandId
	MissingArgumentId
	ManifestNotFoundId
	MalformedManifestId
	CloneFailedId
	DependencyCycleId
	ToolchainUnavailableId
	PluginFailedId
	TemplateFailedId
	ConfigLoadFailedId
)

// Issue kinds.
const (
	KindOther Kind = iota
	KindUsage
	KindManifest
	KindFetch
)

type (
	// Id identifies an issue.
	Id int

	// Kind groups issues by who has to act: the user fixing their command
	// line, their manifest, or their network.
	Kind int

	// MarkdownMsg is guidance text rendered with glamour.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	Issue struct {
		id       Id
		kind     Kind
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) Kind() Kind { return i.kind }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the guidance for a terminal. stylePath is a glamour style
// name ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindManifest:
		return "manifest"
	case KindFetch:
		return "fetch"
	default:
		return "other"
	}
}

const docsBase HttpLink = "https://cute.engineering/cutekit/"

var (
	render = glamour.Render

	issues = map[Id]*Issue{
		UnspecifiedCommandId: {
			id:   UnspecifiedCommandId,
			kind: KindUsage,
			mdMsg: `
# No command specified

cutekit needs a command name.

## Things you can try
~~~
$ cutekit help
$ cutekit build
~~~`,
		},
		UnknownCommandId: {
			id:   UnknownCommandId,
			kind: KindUsage,
			mdMsg: `
# Unknown command

The command name matches no built-in and no plugin.

## Things you can try
- List every command with ` + "`cutekit help`" + `
- Short names are case sensitive: ` + "`I`" + ` is init, ` + "`i`" + ` is install
- Plugins are not loaded with ` + "`--safemode`" + ` or when ` + "`plugins.enabled`" + ` is false`,
		},
		MissingArgumentId: {
			id:   MissingArgumentId,
			kind: KindUsage,
			mdMsg: `
# Missing argument

The command needs an argument that was not given.

## Things you can try
~~~
$ cutekit run <component> [args...]
$ cutekit init <template> [name]
~~~`,
		},
		ManifestNotFoundId: {
			id:   ManifestNotFoundId,
			kind: KindManifest,
			mdMsg: `
# No project found

cutekit looked for project.json (or project.cue) in the current directory
and every parent directory.

## Things you can try
- Change into a project directory
- Create a new project:
~~~
$ cutekit init --list
$ cutekit init <template> <name>
~~~`,
			docLinks: []HttpLink{docsBase + "manifest"},
		},
		MalformedManifestId: {
			id:   MalformedManifestId,
			kind: KindManifest,
			mdMsg: `
# Malformed manifest

A project manifest could not be parsed or does not match the schema.

## Things you can try
- Check the file and field named in the error above
- Every extern needs a non-empty ` + "`git`" + ` and ` + "`tag`" + `:
~~~json
{
  "extern": {
    "cute-engineering/libheap": {
      "git": "https://github.com/cute-engineering/libheap.git",
      "tag": "v1.1.0"
    }
  }
}
~~~
- Extern keys are relative paths without ` + "`.`" + ` or ` + "`..`" + ` segments`,
			docLinks: []HttpLink{docsBase + "manifest"},
		},
		CloneFailedId: {
			id:   CloneFailedId,
			kind: KindFetch,
			mdMsg: `
# Clone failed

An extern could not be cloned. Externs installed before the failure are kept;
the failed one left nothing behind, so running install again resumes.

## Things you can try
- Check that the repository URL and tag exist
- For private repositories set ` + "`GITHUB_TOKEN`" + `, ` + "`GITLAB_TOKEN`" + ` or ` + "`GIT_TOKEN`" + `, or add an SSH key to ~/.ssh
- Use the git command line instead of the built-in client:
~~~cue
git: backend: "exec"
~~~
~~~
$ cutekit install
~~~`,
		},
		DependencyCycleId: {
			id:   DependencyCycleId,
			kind: KindFetch,
			mdMsg: `
# Dependency cycle

An extern depends, directly or through other externs, on itself.

## Things you can try
- Follow the chain printed above and remove one of the extern entries`,
		},
		ToolchainUnavailableId: {
			id: ToolchainUnavailableId,
			mdMsg: `
# Builder not available

Building, running, testing and graphing are delegated to an external builder
executable that was not found.

## Things you can try
- Install the builder and make sure it is in your PATH
- Point cutekit at it in your configuration:
~~~cue
toolchain: command: "/path/to/cutekit-builder"
~~~`,
		},
		PluginFailedId: {
			id: PluginFailedId,
			mdMsg: `
# Plugin failed

A plugin could not be loaded or its script failed.

## Things you can try
- Check the plugin descriptor under meta/plugins/
- Run without plugins:
~~~
$ cutekit --safemode <command>
~~~`,
		},
		TemplateFailedId: {
			id: TemplateFailedId,
			mdMsg: `
# Project template failed

The template registry could not be read or the template could not be
created.

## Things you can try
- List the available templates:
~~~
$ cutekit init --list
~~~
- Use another registry with ` + "`--repo=<owner>/<name>`" + `
- Pick a destination directory that does not exist yet`,
		},
		ConfigLoadFailedId: {
			id: ConfigLoadFailedId,
			mdMsg: `
# Failed to load configuration

The configuration file exists but is not valid.

## Things you can try
- Check the CUE syntax of the file named above
- Compare with a minimal configuration:
~~~cue
default_target: "host-x86_64"
git: backend: "go-git"
~~~
- Pass another file with ` + "`--config=<file>`",
		},
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
