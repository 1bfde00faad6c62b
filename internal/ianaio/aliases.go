// Package ianaio reads the textual IANA inputs tzcore's build consumes:
// zone.tab, backward, and the countryzones record. A real implementation is
// usually backed by protobuf and a heavier text parser; this package
// supplies a real, simple implementation so the CLI is runnable end to end.
package ianaio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"tzcore/internal/tzdata"
	"tzcore/internal/tzerr"
)

// Aliases maps a deprecated ("backward") link name to its preferred target
// zone id.
type Aliases map[tzdata.ZoneId]tzdata.ZoneId

// ParseBackward reads a "backward" file: lines of
// "Link<TAB>+targetId<TAB>+linkName"; other lines are ignored. Chains are
// collapsed so no alias resolves through more than one hop; a chain longer
// than that is a fatal AliasCycle).
func ParseBackward(r io.Reader) (Aliases, error) {
	raw := make(Aliases)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "Link" {
			continue
		}
		target := tzdata.ZoneId(fields[1])
		link := tzdata.ZoneId(fields[2])
		raw[link] = target
	}
	if err := scanner.Err(); err != nil {
		return nil, tzerr.Wrap(tzerr.InvalidInput, "BackwardReadError", "failed reading backward file", err)
	}

	collapsed := make(Aliases, len(raw))
	for link, target := range raw {
		resolved, err := resolveChain(raw, link, target)
		if err != nil {
			return nil, err
		}
		collapsed[link] = resolved
	}
	return collapsed, nil
}

// resolveChain follows at most one further hop from target. A chain needing
// a second hop is the fatal cycle/length case.
func resolveChain(raw Aliases, link, target tzdata.ZoneId) (tzdata.ZoneId, error) {
	next, ok := raw[target]
	if !ok {
		return target, nil
	}
	if _, ok := raw[next]; ok {
		return "", tzerr.New(tzerr.ValidationError, tzerr.CodeAliasCycle,
			fmt.Sprintf("alias chain %s -> %s -> %s exceeds length 2", link, target, next))
	}
	return next, nil
}

// Serialize writes the Aliases map back out in "Link<TAB>target<TAB>link"
// form, the inverse of ParseBackward: parsing then serializing yields the
// same Aliases map when re-parsed.
func (a Aliases) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for link, target := range a {
		if _, err := fmt.Fprintf(bw, "Link\t%s\t%s\n", target, link); err != nil {
			return err
		}
	}
	return bw.Flush()
}
