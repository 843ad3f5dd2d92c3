package entity

// RemnantRecord es una fila del feed autoritativo de remanentes (stock del
// proveedor). Los tres campos llegan como texto libre tal cual los publica la
// planilla; la normalización ocurre en el dominio, no aquí.
type RemnantRecord struct {
	Code     string // artículo; puede parecer numérico pero se trata como string
	Quantity string // entero exacto, ">10" (hay de sobra) o "1" (unidad reservada)
	Price    string // precio con separadores y moneda, ej. "5'990.00 руб."
}
