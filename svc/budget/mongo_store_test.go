package budget

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestAdvanceStatusFilter(t *testing.T) {
	t.Parallel()
	id := uuid.New()

	tests := []struct {
		name string
		from AlertStatus
		want bson.M
	}{
		{name: "known status", from: AlertNear, want: bson.M{"_id": id.String(), "last_alert_status": "near"}},
		{name: "unknown status", from: "bogus", want: bson.M{"_id": id.String(), "last_alert_status": "bogus"}},
		{name: "empty matches missing field", from: "", want: bson.M{
			"_id":               id.String(),
			"last_alert_status": bson.M{"$in": bson.A{"", nil}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, advanceStatusFilter(id, tt.from))
		})
	}
}
