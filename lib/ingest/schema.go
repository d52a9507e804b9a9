package ingest

import "slices"

// Schema . nama table, file CSV sumber dan kolom yang diharapkan (urutan = urutan field di CSV).
type Schema struct {
	Table   string
	CSV     string
	Columns []string
}

var (
	UvaColumns   = []string{"uva_id", "nome", "tipo", "ano_colheita", "pais_origem_id"}
	VinhoColumns = []string{"vinho_id", "rotulo", "ano_producao", "uva_id", "pais_producao_id"}
	PaisColumns  = []string{"pais_id", "nome", "sigla"}
)

// WineSchemas. tiga table dataset wine, csv relatif terhadap dataDir.
func WineSchemas() []Schema {
	return []Schema{
		{Table: "Uva", CSV: "uva.csv", Columns: slices.Clone(UvaColumns)},
		{Table: "Vinho", CSV: "vinho.csv", Columns: slices.Clone(VinhoColumns)},
		{Table: "Pais", CSV: "pais.csv", Columns: slices.Clone(PaisColumns)},
	}
}
