package reconcile

import "context"

// Sweep marks catalog records that are still available but absent from the
// observed feed ids as not-available. It pages the catalog with a strictly
// increasing id cursor, so every available row is visited exactly once even
// as rows it marks drop out of the availability filter. Records already
// not-available are never touched. Returns the number of records marked.
func Sweep(ctx context.Context, repo Repository, seen map[string]struct{}, pageSize int, progress ProgressFunc) (int64, error) {
	if pageSize <= 0 {
		pageSize = DefaultChunkSize
	}

	var cursor uint
	var marked int64
	var scanned int64

	for {
		page, err := repo.ScanAvailableAfter(ctx, cursor, pageSize)
		if err != nil {
			return marked, err
		}
		if len(page) == 0 {
			break
		}
		cursor = page[len(page)-1].ID
		scanned += int64(len(page))

		missing := make([]uint, 0, len(page))
		for _, ref := range page {
			if _, ok := seen[ref.ExternalID]; !ok {
				missing = append(missing, ref.ID)
			}
		}
		if len(missing) > 0 {
			n, err := repo.MarkUnavailable(ctx, missing)
			if err != nil {
				return marked, err
			}
			marked += n
		}

		if progress != nil {
			progress(StageSweep, scanned, -1)
		}
	}

	return marked, nil
}
