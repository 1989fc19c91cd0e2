package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Elektronik", "elektronik"},
		{"Makanan & Minuman", "makanan-minuman"},
		{"  Kopi  Gayo_Aceh ", "kopi-gayo-aceh"},
		{"Café Crème", "cafe-creme"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestUniqueSlug(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	slug := UniqueSlug("Kemeja Batik", now)
	assert.Equal(t, "kemeja-batik-loyw3v28", slug)
	assert.True(t, IsSlug(slug))

	assert.Equal(t, "loyw3v28", UniqueSlug("!!!", now))
}

func TestFormatRupiah(t *testing.T) {
	tests := map[int64]string{
		0:          "Rp0",
		999:        "Rp999",
		1000:       "Rp1.000",
		1500000:    "Rp1.500.000",
		-25000:     "-Rp25.000",
		1234567890: "Rp1.234.567.890",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatRupiah(in))
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"Rp1.234.567", 1234567, true},
		{"rp. 15.000", 15000, true},
		{"RP 999", 999, true},
		{"Rp", 0, false},
		{"Rp1.000 - Rp2.000", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePrice(tt.in)
		assert.Equal(t, tt.ok, ok, "ParsePrice(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParsePrice(%q)", tt.in)
	}
}

func TestRules(t *testing.T) {
	assert.True(t, IsPhone("081234567890"))
	assert.True(t, IsPhone("+6281234567890"))
	assert.True(t, IsPhone("62812345678"))
	assert.False(t, IsPhone("0801234567"))
	assert.False(t, IsPhone("12345"))

	assert.True(t, IsSlug("makanan-minuman"))
	assert.False(t, IsSlug("Makanan"))
	assert.False(t, IsSlug("a--b"))
	assert.False(t, IsSlug("-a"))

	assert.True(t, IsEmail("buyer@marketplace.com"))
	assert.False(t, IsEmail("Buyer <buyer@marketplace.com>"))
	assert.False(t, IsEmail("not-an-email"))

	assert.True(t, IsHTTPURL("https://cdn.example.com/a.png"))
	assert.False(t, IsHTTPURL("ftp://example.com/a.png"))
	assert.False(t, IsHTTPURL("/relative.png"))

	assert.True(t, LenBetween("héllo", 5, 5))
	assert.False(t, LenBetween("a", 2, 50))
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	require.NoError(t, fe.Err())

	fe.Check(true, "name", "ok")
	fe.Check(false, "password", "minimal 6 karakter")
	fe.Check(false, "password", "second failure ignored")
	fe.Check(false, "email", "email tidak valid")

	err := fe.Err()
	require.Error(t, err)
	assert.Equal(t, "email: email tidak valid; password: minimal 6 karakter", err.Error())
}

func TestTrimToNil(t *testing.T) {
	assert.Nil(t, TrimToNil(nil))
	assert.Nil(t, TrimToNil(StringPtr("   ")))
	assert.Equal(t, "Jakarta", *TrimToNil(StringPtr("  Jakarta ")))
}
