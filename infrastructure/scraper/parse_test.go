package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokopediaPage = `<html><body>
<div data-testid="divSRPContentProducts">
  <a href="https://www.tokopedia.com/shopa/apple-iphone-15-128gb">
    <img alt="product-image" src="https://images.tokopedia.net/iphone15.jpg">
    <span>Apple iPhone 15 128GB Garansi Resmi</span>
    <div>Rp12.999.000</div>
    <span>4.9</span>
    <span>1rb+ terjual</span>
    <span>Jakarta Selatan</span>
  </a>
  <a href="https://www.tokopedia.com/search?q=iphone">Cari iphone lainnya di sini</a>
  <a href="https://www.tokopedia.com/shopa/apple-iphone-15-128gb"><span>Apple iPhone 15 128GB Garansi Resmi</span><div>Rp12.999.000</div></a>
  <a href="https://www.tokopedia.com/shopb/iphone-13-second">
    <span>iPhone 13 128GB Second Mulus</span>
    <div>Cashback 5%</div>
    <div>Rp7.500.000</div>
    <span>Kota Bandung</span>
  </a>
</div>
</body></html>`

func TestParseTokopediaDOM(t *testing.T) {
	products, err := ParseTokopedia(tokopediaPage, 10)
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "Apple iPhone 15 128GB Garansi Resmi", first.Name)
	assert.Equal(t, "Rp12.999.000", first.Price)
	assert.Equal(t, "https://images.tokopedia.net/iphone15.jpg", first.ImageURL)
	require.NotNil(t, first.Rating)
	assert.Equal(t, "4.9", *first.Rating)
	require.NotNil(t, first.Sold)
	assert.Equal(t, "1rb+ terjual", *first.Sold)
	require.NotNil(t, first.ShopLocation)
	assert.Equal(t, "Jakarta Selatan", *first.ShopLocation)
	assert.Equal(t, Tokopedia, first.Source)

	second := products[1]
	assert.Equal(t, "Rp7.500.000", second.Price)
	assert.Nil(t, second.Rating)
	require.NotNil(t, second.ShopLocation)
	assert.Equal(t, "Kota Bandung", *second.ShopLocation)
}

func TestParseTokopediaLimit(t *testing.T) {
	products, err := ParseTokopedia(tokopediaPage, 1)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestParseTokopediaNextData(t *testing.T) {
	page := `<html><body><script id="__NEXT_DATA__" type="application/json">
	{"props":{"pageProps":{"products":[
		{"name":"Xiaomi Redmi Note 13","price":"Rp2.599.000","url":"https://www.tokopedia.com/x/redmi","imageUrl":"https://img/x.jpg","rating":4.8,"shop":{"location":"Jakarta Barat"}},
		{"name":"Poco X6 Pro","priceInt":4199000,"url":"https://www.tokopedia.com/x/poco"}
	]}}}
	</script></body></html>`

	products, err := ParseTokopedia(page, 10)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Xiaomi Redmi Note 13", products[0].Name)
	require.NotNil(t, products[0].Rating)
	assert.Equal(t, "4.8", *products[0].Rating)
	require.NotNil(t, products[0].ShopLocation)
	assert.Equal(t, "Jakarta Barat", *products[0].ShopLocation)
	assert.Equal(t, "Rp4.199.000", products[1].Price)
}

const blibliPage = `<html><body>
<a class="elf-product-card" href="/p/samsung-galaxy-a55/ps--SAM-001">
  <img src="https://www.static-src.com/a55.jpg">
  <div class="info">
    <div>Samsung Galaxy A55 5G 8/256GB</div>
    <div class="price"><span class="els-product__fixed-price">Rp5.999.000</span></div>
    <div>4.8</div>
    <div>Terjual 250</div>
    <div>Kota Surabaya</div>
  </div>
</a>
<a class="elf-product-card" href="https://www.blibli.com/p/charger/ps--CHG-002">
  <div><div>Rp58.05061.0505%</div></div>
</a>
<a class="elf-product-card" href="/p/samsung-galaxy-a55/ps--SAM-001"><div>duplicate</div></a>
</body></html>`

func TestParseBlibli(t *testing.T) {
	products, err := ParseBlibli(blibliPage, 10)
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "Samsung Galaxy A55 5G 8/256GB", first.Name)
	assert.Equal(t, "Rp5.999.000", first.Price)
	assert.Equal(t, "https://www.blibli.com/p/samsung-galaxy-a55/ps--SAM-001", first.ProductURL)
	assert.Equal(t, "https://www.static-src.com/a55.jpg", first.ImageURL)
	require.NotNil(t, first.Rating)
	assert.Equal(t, "4.8", *first.Rating)
	require.NotNil(t, first.Sold)
	assert.Equal(t, "Terjual 250", *first.Sold)
	require.NotNil(t, first.ShopLocation)
	assert.Equal(t, "Kota Surabaya", *first.ShopLocation)

	second := products[1]
	assert.Equal(t, "Unknown Product", second.Name)
	assert.Equal(t, "Rp58.050", second.Price)
	assert.Equal(t, Blibli, second.Source)
}

func TestLeadingRupiah(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{in: "45.000", want: 45000, ok: true},
		{in: "1.234.567", want: 1234567, ok: true},
		{in: "58.05061.0505%", want: 58050, ok: true},
		{in: "15000", want: 15000, ok: true},
		{in: "12", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := leadingRupiah(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource(" Tokopedia ")
	require.NoError(t, err)
	assert.Equal(t, Tokopedia, src)

	_, err = ParseSource("shopee")
	assert.Error(t, err)
}
