package diag_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luciano-fiandesio/proto-events-release/diag"
)

func TestErrorfPlain(t *testing.T) {
	var buf bytes.Buffer
	p := diag.NewPrinter(&buf, false)

	p.Errorf("[INVALID_MARKER] expected %q", "release")

	assert.Equal(t, "➜ [INVALID_MARKER] expected \"release\"\n", buf.String())
}

func TestInfofPlain(t *testing.T) {
	var buf bytes.Buffer
	p := diag.NewPrinter(&buf, false)

	p.Infof("created %s", "product-my-service-events-1.2.3.jar")

	assert.Equal(t, "➜ created product-my-service-events-1.2.3.jar\n", buf.String())
}

func TestGlyphAlwaysPresent(t *testing.T) {
	for _, color := range []bool{true, false} {
		var buf bytes.Buffer
		diag.NewPrinter(&buf, color).Errorf("boom")
		assert.True(t, strings.Contains(buf.String(), diag.Glyph))
	}
}
