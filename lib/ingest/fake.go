package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/util"
)

// DatasetSize . jumlah row tiap table dataset sintetis.
type DatasetSize struct {
	Uva   int `toml:"uva"`
	Vinho int `toml:"vinho"`
	Pais  int `toml:"pais"`
}

var DefaultDatasetSize = DatasetSize{Uva: 50, Vinho: 200, Pais: 20}

var grapeTypes = []string{"tinta", "branca", "rose"}

/*
GenerateWineDataset. tulis uva.csv, vinho.csv & pais.csv sintetis ke dir. foreign key
(uva_id, pais_origem_id, pais_producao_id) selalu menunjuk ke id yang ada, kecuali table tujuannya kosong.
seed yang sama menghasilkan file yang sama.
*/
func GenerateWineDataset(dir string, size DatasetSize, seed uint64) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return lib.IOError("generate dataset", err)
	}
	faker := gofakeit.New(seed)

	pais := make([][]string, size.Pais)
	for i := range pais {
		pais[i] = []string{strconv.Itoa(i + 1), faker.Country(), faker.CountryAbr()}
	}

	uva := make([][]string, size.Uva)
	for i := range uva {
		uva[i] = []string{
			strconv.Itoa(i + 1),
			faker.Word(),
			faker.RandomString(grapeTypes),
			strconv.Itoa(faker.Number(1980, 2024)),
			foreignKey(faker, size.Pais),
		}
	}

	vinho := make([][]string, size.Vinho)
	for i := range vinho {
		vinho[i] = []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%s %s", faker.Color(), faker.Word()),
			strconv.Itoa(faker.Number(1980, 2024)),
			foreignKey(faker, size.Uva),
			foreignKey(faker, size.Pais),
		}
	}

	// tiga file ditulis paralel, data sudah digenerate di atas jadi goroutine tidak berbagi faker.
	files := []csvFile{
		{"uva.csv", UvaColumns, uva},
		{"vinho.csv", VinhoColumns, vinho},
		{"pais.csv", PaisColumns, pais},
	}
	errs := util.Run(len(files), files, func(f csvFile) error {
		return writeCSV(filepath.Join(dir, f.name), f.columns, f.rows)
	})
	return errors.Join(errs...)
}

type csvFile struct {
	name    string
	columns []string
	rows    [][]string
}

func foreignKey(faker *gofakeit.Faker, n int) string {
	if n <= 0 {
		return "0"
	}
	return strconv.Itoa(faker.Number(1, n))
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return lib.IOError("write csv", err)
	}

	w := csv.NewWriter(f)
	w.Write(header)
	w.WriteAll(rows)

	err = w.Error()
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return lib.IOError("write csv", fmt.Errorf("%s: %w", path, err))
	}
	return nil
}
