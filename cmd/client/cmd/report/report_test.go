package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shelfkeeper/internal/domain/item"
)

func TestFormatReasons(t *testing.T) {
	got := formatReasons(map[item.DiscardReason]int{
		item.ReasonOther:   1,
		item.ReasonDamaged: 2,
	})
	assert.Equal(t, "damaged: 2, other: 1", got)
	assert.Equal(t, "", formatReasons(nil))
}
