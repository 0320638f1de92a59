package entity

import (
	"cmp"
	"slices"

	"packagecatalog/catalog-service/internal/app/catalog/currency"

	"github.com/shopspring/decimal"
)

// SumUSD - точная сумма цен товаров в USD, товары без цены пропускаются
func SumUSD(products []Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		if p.USDPrice != nil {
			total = total.Add(*p.USDPrice)
		}
	}
	return total
}

// NewPackageRecord переводит доменный пакет в запись БД
// Цена не сохраняется, позиция товара равна его индексу
func NewPackageRecord(pkg Package) *PackageRecord {
	record := &PackageRecord{
		ID:          pkg.ID,
		Name:        pkg.Name,
		Description: pkg.Description,
		Products:    make([]ProductRecord, 0, len(pkg.Products)),
	}
	for i, p := range pkg.Products {
		price := decimal.Zero
		if p.USDPrice != nil {
			price = *p.USDPrice
		}
		record.Products = append(record.Products, ProductRecord{
			PackageID: pkg.ID,
			Position:  i,
			ProductID: p.ID,
			Name:      p.Name,
			USDPrice:  price,
		})
	}
	return record
}

// ToPackage собирает доменный пакет из записи и пересчитывает цену в USD
// Товары упорядочиваются по Position
func (r PackageRecord) ToPackage() Package {
	records := slices.Clone(r.Products)
	slices.SortFunc(records, func(a, b ProductRecord) int {
		return cmp.Compare(a.Position, b.Position)
	})

	products := make([]Product, 0, len(records))
	for _, p := range records {
		price := p.USDPrice
		products = append(products, Product{
			ID:       p.ProductID,
			Name:     p.Name,
			USDPrice: &price,
		})
	}

	return Package{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Products:    products,
		Price:       SumUSD(products),
		Currency:    currency.USD,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// PackageFromDTO переводит тело запроса в доменный пакет без ID
func PackageFromDTO(dto PackageDTO) Package {
	products := make([]Product, 0, len(dto.Products))
	for _, p := range dto.Products {
		products = append(products, Product{
			ID:       p.ID,
			Name:     p.Name,
			USDPrice: p.USDPrice,
		})
	}
	return Package{
		Name:        dto.Name,
		Description: dto.Description,
		Products:    products,
		Price:       SumUSD(products),
		Currency:    currency.USD,
	}
}

// ToPackageResponse переводит пакет в ответ API
func ToPackageResponse(pkg Package) PackageResponse {
	products := make([]ProductResponse, 0, len(pkg.Products))
	for _, p := range pkg.Products {
		price := decimal.Zero
		if p.USDPrice != nil {
			price = *p.USDPrice
		}
		products = append(products, ProductResponse{
			ID:       p.ID,
			Name:     p.Name,
			USDPrice: NewMoney(price),
		})
	}

	code := pkg.Currency
	if code == "" {
		code = currency.USD
	}

	return PackageResponse{
		ID:          pkg.ID,
		Name:        pkg.Name,
		Description: pkg.Description,
		Products:    products,
		Price:       NewMoney(pkg.Price),
		Currency:    code.String(),
	}
}

func ToPackageListResponse(packages []Package) PackageListResponse {
	items := make([]PackageResponse, 0, len(packages))
	for _, pkg := range packages {
		items = append(items, ToPackageResponse(pkg))
	}
	return PackageListResponse{
		Packages: items,
		Total:    len(items),
	}
}

func ToCurrencyListResponse(currencies []Currency) CurrencyListResponse {
	items := make([]CurrencyResponse, 0, len(currencies))
	for _, c := range currencies {
		items = append(items, CurrencyResponse{Code: c.Code.String(), Name: c.Name})
	}
	return CurrencyListResponse{Currencies: items}
}
