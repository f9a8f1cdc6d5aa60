package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("TRIPDESK_TEST_MODE") == "" {
			_ = os.Setenv("TRIPDESK_TEST_MODE", "1")
		}
	})
}
