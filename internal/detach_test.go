package internal_test

import (
	"testing"

	"github.com/keyflight/selfupdate/internal"
	"github.com/stretchr/testify/assert"
)

func TestDetachedProcAttr(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, internal.DetachedProcAttr())
}
