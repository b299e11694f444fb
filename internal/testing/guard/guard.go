// Package guard forces test mode before any package under test initialises.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("FOLIO_TEST_MODE") == "" {
			_ = os.Setenv("FOLIO_TEST_MODE", "1")
		}
	})
}
