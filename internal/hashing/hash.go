package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/ghanse/dlt-workshop/internal/domain"
)

// HashSpecs fingerprints a run's full spec set. encoding/json sorts map keys,
// so marshaling the specs directly is already canonical: the same rules and
// row counts always hash alike regardless of param insertion order.
func HashSpecs(specs []domain.TableSpec) (string, error) {
	data, err := json.Marshal(specs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
