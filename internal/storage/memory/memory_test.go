package memory

import (
	"testing"

	"github.com/mmynk/expensesplit/internal/storage"
	"github.com/mmynk/expensesplit/internal/storage/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		return New()
	})
}
