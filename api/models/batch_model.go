package models

import (
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/moyoez/fileuploader/types"
)

var (
	BatchResultTTL = 60 * time.Minute
	batchResults   = ttlworker.NewCache[string, types.BatchResult](BatchResultTTL)
)

// SetBatchResult stores a batch, running or finished.
func SetBatchResult(result types.BatchResult) {
	batchResults.Set(result.ID, result)
}

func GetBatchResult(id string) (types.BatchResult, bool) {
	result := batchResults.Get(id)
	return result, result.ID != ""
}

// ListBatchIds returns the ids of all cached batches.
func ListBatchIds() []string {
	ids := make([]string, 0)
	err := batchResults.Range(func(k string, v types.BatchResult) error {
		ids = append(ids, k)
		return nil
	})
	if err != nil {
		return nil
	}
	return ids
}
