package regions

import (
	"context"
)

// provinces is the province list of the region directory as of the 34-province
// taxonomy, used when the directory API can't be reached.
var provinces = []Region{
	{ID: "11", Name: "ACEH"},
	{ID: "12", Name: "SUMATERA UTARA"},
	{ID: "13", Name: "SUMATERA BARAT"},
	{ID: "14", Name: "RIAU"},
	{ID: "15", Name: "JAMBI"},
	{ID: "16", Name: "SUMATERA SELATAN"},
	{ID: "17", Name: "BENGKULU"},
	{ID: "18", Name: "LAMPUNG"},
	{ID: "19", Name: "KEPULAUAN BANGKA BELITUNG"},
	{ID: "21", Name: "KEPULAUAN RIAU"},
	{ID: "31", Name: "DKI JAKARTA"},
	{ID: "32", Name: "JAWA BARAT"},
	{ID: "33", Name: "JAWA TENGAH"},
	{ID: "34", Name: "DI YOGYAKARTA"},
	{ID: "35", Name: "JAWA TIMUR"},
	{ID: "36", Name: "BANTEN"},
	{ID: "51", Name: "BALI"},
	{ID: "52", Name: "NUSA TENGGARA BARAT"},
	{ID: "53", Name: "NUSA TENGGARA TIMUR"},
	{ID: "61", Name: "KALIMANTAN BARAT"},
	{ID: "62", Name: "KALIMANTAN TENGAH"},
	{ID: "63", Name: "KALIMANTAN SELATAN"},
	{ID: "64", Name: "KALIMANTAN TIMUR"},
	{ID: "65", Name: "KALIMANTAN UTARA"},
	{ID: "71", Name: "SULAWESI UTARA"},
	{ID: "72", Name: "SULAWESI TENGAH"},
	{ID: "73", Name: "SULAWESI SELATAN"},
	{ID: "74", Name: "SULAWESI TENGGARA"},
	{ID: "75", Name: "GORONTALO"},
	{ID: "76", Name: "SULAWESI BARAT"},
	{ID: "81", Name: "MALUKU"},
	{ID: "82", Name: "MALUKU UTARA"},
	{ID: "91", Name: "PAPUA BARAT"},
	{ID: "94", Name: "PAPUA"},
}

// Provinces returns a copy of the built-in province list.
func Provinces() []Region {
	return clone(provinces)
}

// StaticDirectory answers province listings from the built-in list, it cannot list
// regencies or districts.
type StaticDirectory struct{}

func (StaticDirectory) ListProvinces(ctx context.Context) ([]Region, error) {
	return Provinces(), nil
}

func (StaticDirectory) ListRegencies(ctx context.Context, provinceId string) ([]Region, error) {
	if !ValidID(provinceId) {
		return nil, ErrInvalidID
	}
	return nil, ErrNotAvailable
}

func (StaticDirectory) ListDistricts(ctx context.Context, regencyId string) ([]Region, error) {
	if !ValidID(regencyId) {
		return nil, ErrInvalidID
	}
	return nil, ErrNotAvailable
}
