package application

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/usahome-cli/internal/domain"
)

const (
	servicesCacheKey  = "professional_services"
	lastAddedCacheKey = "last_added_service"
)

func cacheKey(identity domain.Identity, name string) string {
	return string(identity) + "/" + name
}

// decodeServiceList accepts any JSON array; non-string elements are dropped
// along with corrupt names.
func decodeServiceList(raw string) (domain.ServiceList, error) {
	var values []any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode cached services: %w", err)
	}

	names := make([]string, 0, len(values))
	for _, value := range values {
		if name, ok := value.(string); ok {
			names = append(names, name)
		}
	}

	return domain.NormalizeServiceNames(names), nil
}

func encodeServiceList(services domain.ServiceList) (string, error) {
	data, err := json.Marshal(services.Strings())
	if err != nil {
		return "", fmt.Errorf("encode services: %w", err)
	}
	return string(data), nil
}
