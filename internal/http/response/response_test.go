package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/notify"
)

func TestRespondErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	err := fmt.Errorf("add: %w", &domain.StockError{ProductID: 3, Requested: 2, Available: 1})
	n := notify.FromError(err)
	RespondError(c, err, &n)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status=%d", rec.Code)
	}
	var body ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "OUT_OF_STOCK" || body.Notification == nil || body.Notification.Message != "Only 1 left in stock" {
		t.Fatalf("body=%+v", body)
	}
}
