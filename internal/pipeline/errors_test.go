package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryChecks(t *testing.T) {
	v := Validationf("row %d has no ride id", 7)
	c := Configurationf("no boundaries loaded")
	s := Storagef(errors.New("database is locked"), "insert chunk")

	assert.True(t, IsValidation(v))
	assert.False(t, IsConfiguration(v))
	assert.False(t, IsStorage(v))

	assert.True(t, IsConfiguration(c))
	assert.True(t, IsStorage(s))
	assert.False(t, IsValidation(s))

	assert.False(t, IsValidation(nil))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestCategorySurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("import file x.csv: %w", Storagef(errors.New("disk full"), "insert chunk"))
	assert.True(t, IsStorage(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestStoragefKeepsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := Storagef(cause, "merge departures")
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrStorage))
}
