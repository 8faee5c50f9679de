package editor

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// FormData is the full set of editable agent fields.
type FormData struct {
	domain.Identity
	domain.Config
}

// Clone returns a deep copy.
func (f FormData) Clone() FormData {
	return FormData{Identity: f.Identity, Config: f.Config.Clone()}
}

// Changes lists the fields that differ between two FormData values,
// in a stable field order.
type Changes []domain.Field

// Has reports whether f is among the changes.
func (c Changes) Has(f domain.Field) bool {
	return slices.Contains(c, f)
}

// Only returns the subset of changes that are in fields.
func (c Changes) Only(fields ...domain.Field) Changes {
	return lo.Filter(c, func(f domain.Field, _ int) bool {
		return slices.Contains(fields, f)
	})
}

// Comparator computes field-level differences between a draft and its
// persisted original.
//
// By default integration lists are compared in order, so reordering an
// unchanged list counts as a change. IgnoreListOrder compares them as sets
// keyed by integration name.
type Comparator struct {
	IgnoreListOrder bool
}

// Diff returns the changed fields.
func (c Comparator) Diff(draft, original FormData) Changes {
	var changes Changes
	add := func(f domain.Field, differs bool) {
		if differs {
			changes = append(changes, f)
		}
	}

	add(domain.FieldName, draft.Name != original.Name)
	add(domain.FieldDescription, draft.Description != original.Description)
	add(domain.FieldSystemPrompt, draft.SystemPrompt != original.SystemPrompt)
	add(domain.FieldTools, !draft.Tools.Equal(original.Tools))
	add(domain.FieldConfiguredMCPs, !c.configuredEqual(draft.ConfiguredMCPs, original.ConfiguredMCPs))
	add(domain.FieldCustomMCPs, !c.customEqual(draft.CustomMCPs, original.CustomMCPs))
	add(domain.FieldIsDefault, draft.IsDefault != original.IsDefault)
	add(domain.FieldAvatar, draft.Avatar != original.Avatar)
	add(domain.FieldAvatarColor, draft.AvatarColor != original.AvatarColor)

	return changes
}

// IsDirty reports whether draft differs from original in any field.
func (c Comparator) IsDirty(draft, original FormData) bool {
	return len(c.Diff(draft, original)) > 0
}

func (c Comparator) configuredEqual(a, b []domain.ConfiguredMCP) bool {
	if c.IgnoreListOrder {
		key := func(x, y domain.ConfiguredMCP) int {
			return cmp.Or(cmp.Compare(x.QualifiedName, y.QualifiedName), cmp.Compare(x.Name, y.Name))
		}
		a, b = sortedCopy(a, key), sortedCopy(b, key)
	}
	return domain.ConfiguredMCPsEqual(a, b)
}

func (c Comparator) customEqual(a, b []domain.CustomMCP) bool {
	if c.IgnoreListOrder {
		key := func(x, y domain.CustomMCP) int {
			return cmp.Or(cmp.Compare(x.Name, y.Name), cmp.Compare(x.Type, y.Type))
		}
		a, b = sortedCopy(a, key), sortedCopy(b, key)
	}
	return domain.CustomMCPsEqual(a, b)
}

func sortedCopy[T any](s []T, compare func(a, b T) int) []T {
	out := slices.Clone(s)
	slices.SortStableFunc(out, compare)
	return out
}

// Diff compares draft and original with the default, order-sensitive Comparator.
func Diff(draft, original FormData) Changes {
	return Comparator{}.Diff(draft, original)
}

// IsDirty reports whether draft differs from original.
func IsDirty(draft, original FormData) bool {
	return Comparator{}.IsDirty(draft, original)
}
