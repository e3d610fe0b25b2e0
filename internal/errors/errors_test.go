package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	svcErr "github.com/veritydate/verity-backend/internal/errors"
)

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusOK, svcErr.HTTPStatus(nil))
	assert.Equal(t, http.StatusBadRequest, svcErr.HTTPStatus(svcErr.ErrInvalidInput))
	assert.Equal(t, http.StatusPaymentRequired, svcErr.HTTPStatus(svcErr.ErrRequiresPremium))
	assert.Equal(t, http.StatusPreconditionFailed, svcErr.HTTPStatus(svcErr.ErrLocationMissing))
	assert.Equal(t, http.StatusNotFound, svcErr.HTTPStatus(svcErr.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, svcErr.HTTPStatus(gorm.ErrRecordNotFound))
	assert.Equal(t, http.StatusInternalServerError, svcErr.HTTPStatus(fmt.Errorf("boom")))

	// wrapped sentinels still map
	wrapped := fmt.Errorf("%w: undo", svcErr.ErrRequiresPremium)
	assert.Equal(t, http.StatusPaymentRequired, svcErr.HTTPStatus(wrapped))
}

func TestMessageHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "operation failed", svcErr.Message(fmt.Errorf("dial tcp: connection refused")))

	wrapped := fmt.Errorf("%w: scheduled time is in the past", svcErr.ErrInvalidInput)
	assert.Equal(t, wrapped.Error(), svcErr.Message(wrapped))
}
