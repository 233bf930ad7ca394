package entity

// Unidades de medida para productos en inventario.
const (
	// Masa
	UnitKilogram  = "kg"
	UnitHectogram = "hg"
	UnitDecagram  = "dag"
	UnitGram      = "g"
	UnitDecigram  = "dg"
	UnitCentigram = "cg"
	UnitMilligram = "mg"
	UnitPound     = "lb"

	// Longitud
	UnitInch       = "in"
	UnitYard       = "yd"
	UnitMeter      = "mt"
	UnitFoot       = "ft"
	UnitCentimeter = "ct"

	// Volumen
	UnitLitre  = "lt"
	UnitCup    = "cup"
	UnitPint   = "pt"
	UnitGallon = "gal"
	UnitBarrel = "bbl"

	// Varios
	UnitPiece = "pc"
)

var validUnits = map[string]bool{
	UnitKilogram: true, UnitHectogram: true, UnitDecagram: true, UnitGram: true,
	UnitDecigram: true, UnitCentigram: true, UnitMilligram: true, UnitPound: true,
	UnitInch: true, UnitYard: true, UnitMeter: true, UnitFoot: true, UnitCentimeter: true,
	UnitLitre: true, UnitCup: true, UnitPint: true, UnitGallon: true, UnitBarrel: true,
	UnitPiece: true,
}

// IsValidUnit reporta si el código de unidad de medida es conocido.
func IsValidUnit(unit string) bool {
	return validUnits[unit]
}
