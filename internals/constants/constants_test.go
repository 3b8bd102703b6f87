package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFileTypeFromExt(t *testing.T) {
	assert.Equal(t, FileTypeImage, DetectFileTypeFromExt("soal.PNG"))
	assert.Equal(t, FileTypeImage, DetectFileTypeFromExt("a.b.jpeg"))
	assert.Equal(t, FileTypeUnknown, DetectFileTypeFromExt("soal.pdf"))
	assert.Equal(t, FileTypeUnknown, DetectFileTypeFromExt("tanpa-ekstensi"))
}

func TestRoleErrorAdmin(t *testing.T) {
	assert.Equal(t, "❌ Hanya admin yang boleh mengakses fitur statistik.", RoleErrorAdmin("statistik"))
}
