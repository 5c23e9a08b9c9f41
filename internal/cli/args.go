package cli

import (
	"strconv"

	"github.com/yungbote/storefront/internal/domain"
)

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: "id", Reason: "must be an integer"}
	}
	return id, nil
}
