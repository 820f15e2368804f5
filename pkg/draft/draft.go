package draft

import (
	"time"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

// Draft wraps one cv.Record with identity and timestamps. CreatedAt never
// changes after creation; UpdatedAt is refreshed by every Store.Save.
type Draft struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Data      cv.Record `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	out := d
	out.Data = d.Data.Clone()
	return out
}
