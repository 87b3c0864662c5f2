package validators

// Enums de catálogo. Se validan en el servidor: el original sólo los
// comprobaba en el cliente.

var Categories = []string{
	"frutas",
	"verduras",
	"lacteos",
	"carnes",
	"panaderia",
	"otros",
}

var Units = []string{
	"kg",
	"unidades",
	"litros",
}

func IsValidCategory(c string) bool {
	return contains(Categories, c)
}

func IsValidUnit(u string) bool {
	return contains(Units, u)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
