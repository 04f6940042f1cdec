package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"curvefit/internal/errors"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `growth`, escapeLike("growth"))
	assert.Equal(t, `50\% off`, escapeLike("50% off"))
	assert.Equal(t, `run\_1`, escapeLike("run_1"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}

func TestDBErrorCode(t *testing.T) {
	err := dbError(assert.AnError, "failed to insert sample")
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "failed to insert sample: "+assert.AnError.Error(), err.Error())
}
