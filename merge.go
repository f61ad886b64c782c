package dramatis

import (
	"sort"
	"strings"

	"github.com/storygraph/dramatis/pkg/types"
)

// MergeCharacters combines per-chunk character lists into a single
// deduplicated cast. Two records describe the same character when their
// names match case-insensitively or any of their surface forms (name plus
// aliases) overlap; matching is transitive. Within a merged cluster the
// canonical name comes from the most confident record, confidence is the
// maximum seen, the most specific role wins, and aliases are the union of
// every other surface form. The merge is idempotent and does not depend on
// input order.
func MergeCharacters(groups ...[]types.Character) []types.Character {
	var records []types.Character
	for _, group := range groups {
		records = append(records, group...)
	}
	if len(records) == 0 {
		return nil
	}

	clusters := clusterCharacters(records)

	merged := make([]types.Character, 0, len(clusters))
	for _, cluster := range clusters {
		merged = append(merged, canonicalCharacter(cluster))
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Confidence != merged[j].Confidence {
			return merged[i].Confidence > merged[j].Confidence
		}
		return merged[i].Name < merged[j].Name
	})
	return merged
}

// clusterCharacters groups records by transitive surface-form overlap.
func clusterCharacters(records []types.Character) [][]types.Character {
	clusters := make([][]types.Character, 0, len(records))
	surfaces := make([]map[string]struct{}, 0, len(records))

	for _, r := range records {
		forms := make(map[string]struct{})
		for _, f := range r.SurfaceForms() {
			forms[f] = struct{}{}
		}

		matched := -1
		for i := range clusters {
			if overlaps(surfaces[i], forms) {
				if matched == -1 {
					clusters[i] = append(clusters[i], r)
					for f := range forms {
						surfaces[i][f] = struct{}{}
					}
					matched = i
					continue
				}
				// The record bridges two clusters; fold the later
				// one into the first match.
				clusters[matched] = append(clusters[matched], clusters[i]...)
				for f := range surfaces[i] {
					surfaces[matched][f] = struct{}{}
				}
				clusters[i] = nil
				surfaces[i] = nil
			}
		}
		if matched == -1 {
			clusters = append(clusters, []types.Character{r})
			surfaces = append(surfaces, forms)
		}
	}

	out := clusters[:0]
	for _, c := range clusters {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func overlaps(a, b map[string]struct{}) bool {
	if a == nil {
		return false
	}
	for f := range b {
		if _, ok := a[f]; ok {
			return true
		}
	}
	return false
}

// canonicalCharacter folds a cluster into one record. The cluster is sorted
// deterministically first so the result does not depend on chunk order.
func canonicalCharacter(cluster []types.Character) types.Character {
	sort.Slice(cluster, func(i, j int) bool {
		a, b := cluster[i], cluster[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if len(a.Name) != len(b.Name) {
			return len(a.Name) > len(b.Name)
		}
		return a.Name < b.Name
	})

	out := types.Character{
		Name:       cluster[0].Name,
		Confidence: cluster[0].Confidence,
		Role:       types.RoleUnknown,
	}

	for _, r := range cluster {
		if out.FirstMention == "" {
			out.FirstMention = r.FirstMention
		}
	}
	out.Role = pickRole(cluster)
	out.Aliases = collectAliases(cluster, out.Name)
	return out
}

// pickRole selects the cluster's role: the highest-confidence record with a
// known role wins, ties broken by role precedence.
func pickRole(cluster []types.Character) types.CharacterRole {
	role := types.RoleUnknown
	best := -1.0
	for _, r := range cluster {
		if r.Role == types.RoleUnknown {
			continue
		}
		switch {
		case role == types.RoleUnknown, r.Confidence > best:
			role = r.Role
			best = r.Confidence
		case r.Confidence == best && types.RoleOutranks(r.Role, role):
			role = r.Role
		}
	}
	return role
}

// collectAliases gathers every surface form in the cluster except the
// canonical name, keeping the original casing and deduplicating
// case-insensitively.
func collectAliases(cluster []types.Character, canonical string) []string {
	byKey := make(map[string]string)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, canonical) {
			return
		}
		key := strings.ToLower(s)
		if existing, ok := byKey[key]; !ok || s < existing {
			byKey[key] = s
		}
	}
	for _, r := range cluster {
		add(r.Name)
		for _, a := range r.Aliases {
			add(a)
		}
	}
	if len(byKey) == 0 {
		return nil
	}
	aliases := make([]string, 0, len(byKey))
	for _, v := range byKey {
		aliases = append(aliases, v)
	}
	sort.Strings(aliases)
	return aliases
}

// MergeRelationships combines per-chunk relationship lists. Relationships
// are keyed by their unordered character pair; strength is averaged across
// the cluster, type labels are unioned into a sorted "/"-joined set,
// descriptions keep the lexicographically smallest non-empty value, and key
// scenes are a deduplicated union. Like MergeCharacters, the merge is
// idempotent and order-independent.
func MergeRelationships(groups ...[]types.Relationship) []types.Relationship {
	var records []types.Relationship
	for _, group := range groups {
		records = append(records, group...)
	}
	if len(records) == 0 {
		return nil
	}

	byPair := make(map[string][]types.Relationship)
	keys := make([]string, 0)
	for _, r := range records {
		key := r.PairKey()
		if _, seen := byPair[key]; !seen {
			keys = append(keys, key)
		}
		byPair[key] = append(byPair[key], r)
	}
	sort.Strings(keys)

	merged := make([]types.Relationship, 0, len(keys))
	for _, key := range keys {
		merged = append(merged, canonicalRelationship(byPair[key]))
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Strength != merged[j].Strength {
			return merged[i].Strength > merged[j].Strength
		}
		if merged[i].Character1 != merged[j].Character1 {
			return merged[i].Character1 < merged[j].Character1
		}
		return merged[i].Character2 < merged[j].Character2
	})
	return merged
}

func canonicalRelationship(cluster []types.Relationship) types.Relationship {
	c1, c2 := canonicalEndpoints(cluster)

	typeSet := make(map[string]struct{})
	sceneSet := make(map[string]struct{})
	description := ""
	total := 0.0
	for _, r := range cluster {
		total += r.Strength
		for _, label := range strings.Split(r.Type, "/") {
			label = strings.TrimSpace(strings.ToLower(label))
			if label != "" && label != "unknown" {
				typeSet[label] = struct{}{}
			}
		}
		for _, scene := range r.KeyScenes {
			scene = strings.TrimSpace(scene)
			if scene != "" {
				sceneSet[scene] = struct{}{}
			}
		}
		if r.Description != "" && (description == "" || r.Description < description) {
			description = r.Description
		}
	}

	labels := make([]string, 0, len(typeSet))
	for label := range typeSet {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	relType := strings.Join(labels, "/")
	if relType == "" {
		relType = "unknown"
	}

	var scenes []string
	if len(sceneSet) > 0 {
		scenes = make([]string, 0, len(sceneSet))
		for scene := range sceneSet {
			scenes = append(scenes, scene)
		}
		sort.Strings(scenes)
	}

	return types.Relationship{
		Character1:  c1,
		Character2:  c2,
		Type:        relType,
		Strength:    total / float64(len(cluster)),
		Description: description,
		KeyScenes:   scenes,
	}
}

// canonicalEndpoints picks a deterministic casing and ordering for the
// cluster's character pair. The lexicographically smallest casing of each
// endpoint wins, and the pair is ordered case-insensitively.
func canonicalEndpoints(cluster []types.Relationship) (string, string) {
	variants := make(map[string]string)
	pick := func(s string) {
		key := strings.ToLower(s)
		if existing, ok := variants[key]; !ok || s < existing {
			variants[key] = s
		}
	}
	for _, r := range cluster {
		pick(r.Character1)
		pick(r.Character2)
	}

	k1 := strings.ToLower(cluster[0].Character1)
	k2 := strings.ToLower(cluster[0].Character2)
	if k1 > k2 {
		k1, k2 = k2, k1
	}
	return variants[k1], variants[k2]
}

// mergeTraitProfiles folds per-chunk trait profiles into one. List fields
// are deduplicated unions preserving first-seen order; scalar fields keep
// the first non-empty value from the chunk order.
func mergeTraitProfiles(profiles []*types.TraitProfile, name string) *types.TraitProfile {
	out := &types.TraitProfile{Name: name}

	for _, p := range profiles {
		if p == nil {
			continue
		}
		if out.PhysicalDescription == "" {
			out.PhysicalDescription = p.PhysicalDescription
		}
		if out.CharacterArc == "" {
			out.CharacterArc = p.CharacterArc
		}
		out.Personality = appendDistinct(out.Personality, p.Personality)
		out.Motivations = appendDistinct(out.Motivations, p.Motivations)
		out.KeyActions = appendDistinct(out.KeyActions, p.KeyActions)
		for k, v := range p.Relationships {
			if out.Relationships == nil {
				out.Relationships = make(map[string]string)
			}
			if _, ok := out.Relationships[k]; !ok {
				out.Relationships[k] = v
			}
		}
	}
	return out
}

func appendDistinct(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range src {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
