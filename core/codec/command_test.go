package codec_test

import (
	"testing"

	"github.com/pombreda/soundforest/core/codec"
	"github.com/pombreda/soundforest/core/models"

	"github.com/stretchr/testify/assert"
)

func TestTemplateValidateDecoder(t *testing.T) {
	assert.NoError(t, codec.Template("flac -f --silent --decode -o OUTFILE FILE").Validate(models.RoleDecoder))

	// Exactly one of each placeholder.
	assert.ErrorIs(t, codec.Template("flac --decode FILE").Validate(models.RoleDecoder), codec.ErrInvalidCodecCommand)
	assert.ErrorIs(t, codec.Template("cat FILE FILE OUTFILE").Validate(models.RoleDecoder), codec.ErrInvalidCodecCommand)
	assert.ErrorIs(t, codec.Template("").Validate(models.RoleDecoder), codec.ErrInvalidCodecCommand)
}

func TestTemplateValidateEncoder(t *testing.T) {
	assert.NoError(t, codec.Template("oggenc --quiet -q 7 -o OUTFILE FILE").Validate(models.RoleEncoder))
	assert.ErrorIs(t, codec.Template("oggenc OUTFILE").Validate(models.RoleEncoder), codec.ErrInvalidCodecCommand)
}

func TestTemplateValidateTester(t *testing.T) {
	// Testers verify in place and take no output path.
	assert.NoError(t, codec.Template("flac --silent --test FILE").Validate(models.RoleTester))
	assert.ErrorIs(t, codec.Template("flac --test FILE OUTFILE").Validate(models.RoleTester), codec.ErrInvalidCodecCommand)
	assert.ErrorIs(t, codec.Template("flac --test").Validate(models.RoleTester), codec.ErrInvalidCodecCommand)
}

func TestTemplateRender(t *testing.T) {
	tmpl := codec.Template("lame --quiet --decode FILE OUTFILE")
	argv := tmpl.Render("/music/a.mp3", "/tmp/a.wav")
	assert.Equal(t, []string{"lame", "--quiet", "--decode", "/music/a.mp3", "/tmp/a.wav"}, argv)
}

func TestTemplateRenderKeepsEmbeddedTokens(t *testing.T) {
	// Only standalone placeholder arguments are substituted.
	tmpl := codec.Template("tool --profile=FILEBASED FILE")
	argv := tmpl.Render("/music/a.flac", "")
	assert.Equal(t, []string{"tool", "--profile=FILEBASED", "/music/a.flac"}, argv)
}
