package database

import (
	"time"

	"gorm.io/gorm"
)

// BatchWriteLimit is the most ids a single batch delete statement carries.
const BatchWriteLimit = 25

// Changes collects the columns of a partial update. Only columns recorded
// with Set (or Put) are written, so absent request fields keep their stored
// values.
type Changes map[string]interface{}

// Set records column when v is non-nil.
func Set[T any](c Changes, column string, v *T) {
	if v != nil {
		c[column] = *v
	}
}

// Put records column unconditionally.
func (c Changes) Put(column string, v interface{}) {
	c[column] = v
}

func (c Changes) Has(column string) bool {
	_, ok := c[column]
	return ok
}

func (c Changes) Empty() bool {
	return len(c) == 0
}

// Apply writes the recorded columns plus updated_at to the row of model
// identified by id and reports how many rows matched.
func (c Changes) Apply(db *gorm.DB, model interface{}, id string, now time.Time) (int64, error) {
	values := make(map[string]interface{}, len(c)+1)
	for k, v := range c {
		values[k] = v
	}
	values["updated_at"] = now

	result := db.Model(model).Where("id = ?", id).Updates(values)
	return result.RowsAffected, result.Error
}

// Chunk splits ids into consecutive slices of at most size elements.
func Chunk(ids []string, size int) [][]string {
	if size <= 0 {
		size = BatchWriteLimit
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
