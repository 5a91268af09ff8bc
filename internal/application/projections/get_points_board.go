package projections

import (
	"context"
	"sort"
)

// PointsBoardRow is one club on the public points board.
type PointsBoardRow struct {
	Name   string
	Points int
}

// GetPointsBoardResult carries the query result.
type GetPointsBoardResult struct {
	Clubs []PointsBoardRow
}

// GetPointsBoardDeps holds dependencies for GetPointsBoard.
type GetPointsBoardDeps struct {
	ClubStore ClubStore
}

// QueryGetPointsBoard lists every club with its remaining points.
// PRE: none
// POST: Rows are sorted by club name; emails are never exposed
func QueryGetPointsBoard(ctx context.Context, deps GetPointsBoardDeps) (GetPointsBoardResult, error) {
	clubs, err := deps.ClubStore.List(ctx)
	if err != nil {
		return GetPointsBoardResult{}, err
	}

	rows := make([]PointsBoardRow, 0, len(clubs))
	for _, c := range clubs {
		rows = append(rows, PointsBoardRow{Name: c.Name, Points: c.Points})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return GetPointsBoardResult{Clubs: rows}, nil
}
