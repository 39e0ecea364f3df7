package payoutsvc

import (
	"context"
	"testing"

	"evernet/internal/common"

	"github.com/stretchr/testify/assert"
)

func TestGenerateMonthlyRejectsBadMonthFormat(t *testing.T) {
	s := &ReportService{}

	for _, month := range []string{"", "2026", "07-2026", "2026-13", "2026/07", "2026-7"} {
		_, err := s.GenerateMonthly(context.Background(), month)
		assert.Error(t, err, "tháng %q phải bị từ chối trước khi chạm vào dữ liệu", month)

		var appErr *common.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
	}
}
