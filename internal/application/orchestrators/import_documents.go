package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"gudlft/internal/domain/club"
	"gudlft/internal/domain/competition"
)

// ClubCopyStore is the club store surface used on either side of an import.
type ClubCopyStore interface {
	List(ctx context.Context) ([]club.Club, error)
	Save(ctx context.Context, c club.Club) error
}

// CompetitionCopyStore is the competition store surface used on either side of an import.
type CompetitionCopyStore interface {
	List(ctx context.Context) ([]competition.Competition, error)
	Save(ctx context.Context, c competition.Competition) error
}

// ImportDocumentsInput carries import options.
type ImportDocumentsInput struct {
	DryRun bool
}

// ImportDocumentsResult counts imported records.
type ImportDocumentsResult struct {
	Clubs        int
	Competitions int
	Invalid      []string // names of records that failed validation
	DryRun       bool
}

// ImportDocumentsDeps holds the source and destination stores.
type ImportDocumentsDeps struct {
	SourceClubs        ClubCopyStore
	SourceCompetitions CompetitionCopyStore
	DestClubs          ClubCopyStore
	DestCompetitions   CompetitionCopyStore
}

// ExecuteImportDocuments copies clubs and competitions between backends.
// PRE: source and destination stores are distinct
// POST: Valid records are upserted into the destination; invalid ones are
// listed in Invalid and skipped. Nothing is written when DryRun is set.
// INVARIANT: the source is never written
func ExecuteImportDocuments(ctx context.Context, input ImportDocumentsInput, deps ImportDocumentsDeps) (ImportDocumentsResult, error) {
	result := ImportDocumentsResult{DryRun: input.DryRun}

	clubs, err := deps.SourceClubs.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list source clubs: %w", err)
	}
	comps, err := deps.SourceCompetitions.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list source competitions: %w", err)
	}

	for _, c := range clubs {
		if err := c.Validate(); err != nil {
			result.Invalid = append(result.Invalid, "club "+c.Name+": "+err.Error())
			continue
		}
		if !input.DryRun {
			if err := deps.DestClubs.Save(ctx, c); err != nil {
				return result, fmt.Errorf("save club %q: %w", c.Name, err)
			}
		}
		result.Clubs++
	}
	for _, comp := range comps {
		if err := comp.Validate(); err != nil {
			result.Invalid = append(result.Invalid, "competition "+comp.Name+": "+err.Error())
			continue
		}
		if !input.DryRun {
			if err := deps.DestCompetitions.Save(ctx, comp); err != nil {
				return result, fmt.Errorf("save competition %q: %w", comp.Name, err)
			}
		}
		result.Competitions++
	}

	slog.Info("import_event", "event", "documents_imported",
		"dry_run", input.DryRun,
		"clubs", result.Clubs,
		"competitions", result.Competitions,
		"invalid", len(result.Invalid))
	return result, nil
}
