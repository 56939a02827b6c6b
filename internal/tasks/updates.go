package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Percent reports completion within the phase as 0-100.
func (p ProgressUpdate) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return p.Step * 100 / p.Total
}

// Operation phase enumeration
type Phase int

const (
	FetchFollowing Phase = iota
	FetchReleases
	MergeReleases
	SyncBackend
	Done
)

func (p Phase) String() string {
	switch p {
	case FetchFollowing:
		return "fetch_following"
	case FetchReleases:
		return "fetch_releases"
	case MergeReleases:
		return "merge_releases"
	case SyncBackend:
		return "sync_backend"
	case Done:
		return "done"
	default:
		return ""
	}
}

func fetchFollowingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFollowing,
		Step:    1,
		Total:   1,
		Message: "Fetching followed artists...",
	}
}

func followingFetchedUpdate(count int, partial bool) ProgressUpdate {
	message := fmt.Sprintf("Found %d followed artists", count)
	if partial {
		message += " (partial)"
	}
	return ProgressUpdate{
		Phase:   FetchFollowing,
		Step:    1,
		Total:   1,
		Message: message,
		Data:    count,
	}
}

func fetchReleasesUpdate(done, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchReleases,
		Step:    done,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching releases...", done, total),
	}
}

func mergeReleasesUpdate(raw int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MergeReleases,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Merging %d raw releases...", raw),
	}
}

func syncBackendUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncBackend,
		Step:    1,
		Total:   1,
		Message: "Syncing radar to backend...",
	}
}

func doneUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Radar ready: %d releases", count),
		Data:    count,
	}
}
