// Package reference buduje tabele id -> wartość z endpointów słownikowych API.
// Każda tabela jest wypełniana raz na starcie przebiegu (Parse może być wołane
// dla kolejnych stron) i potem tylko czytana.
package reference

type Kind int

const (
	Units Kind = iota
	Manufacturers
	Vat
	SalesPrices
	Categories
	Attributes
	Properties
	PropertyGroups
	ItemProperties
	PropertySelections
	Stores
)

var kindKeys = [...]string{
	Units:              "units",
	Manufacturers:      "manufacturers",
	Vat:                "vat",
	SalesPrices:        "salesprices",
	Categories:         "categories",
	Attributes:         "attributes",
	Properties:         "properties",
	PropertyGroups:     "propertygroups",
	ItemProperties:     "itemproperties",
	PropertySelections: "propertyselections",
	Stores:             "stores",
}

// Key – klucz w rejestrze
func (k Kind) Key() string {
	if k < 0 || int(k) >= len(kindKeys) {
		return "unknown"
	}
	return kindKeys[k]
}

func (k Kind) String() string { return k.Key() }

// Mandatory – bez tej tabeli eksport nie ma sensu
func (k Kind) Mandatory() bool { return k == Attributes }

// All zwraca rodzaje w kolejności ładowania
func All() []Kind {
	out := make([]Kind, 0, len(kindKeys))
	for k := range kindKeys {
		out = append(out, Kind(k))
	}
	return out
}
