// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"

	"github.com/cute-engineering/cutekit/internal/command"
	"github.com/cute-engineering/cutekit/internal/plugin"
	"github.com/cute-engineering/cutekit/internal/template"
	"github.com/cute-engineering/cutekit/internal/toolchain"
	"github.com/cute-engineering/cutekit/pkg/extern"
	"github.com/cute-engineering/cutekit/pkg/manifest"
)

var sentinels = []struct {
	err error
	id  Id
}{
	{command.ErrUnspecifiedCommand, UnspecifiedCommandId},
	{command.ErrUnknownCommand, UnknownCommandId},
	{command.ErrMissingArgument, MissingArgumentId},
	{manifest.ErrNotFound, ManifestNotFoundId},
	{manifest.ErrMalformed, MalformedManifestId},
	{extern.ErrDependencyCycle, DependencyCycleId},
	{extern.ErrCloneFailed, CloneFailedId},
	{toolchain.ErrUnavailable, ToolchainUnavailableId},
	{plugin.ErrInvalid, PluginFailedId},
	{plugin.ErrScriptFailed, PluginFailedId},
	{template.ErrRegistry, TemplateFailedId},
	{template.ErrUnknownTemplate, TemplateFailedId},
	{template.ErrDestinationExists, TemplateFailedId},
}

// Classify returns the issue an error belongs to. An ActionableError tagged
// with an issue wins; otherwise the first known sentinel in the chain decides.
// Unknown errors yield 0.
func Classify(err error) Id {
	if err == nil {
		return 0
	}

	var ae *ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.id
		}
	}
	return 0
}

// KindOf returns the kind of the issue err belongs to.
func KindOf(err error) Kind {
	if i := Get(Classify(err)); i != nil {
		return i.kind
	}
	return KindOther
}
