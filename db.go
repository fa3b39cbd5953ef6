package pixeltool

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/pixeltool/pixel"
	_ "github.com/mattn/go-sqlite3"
)

// ResultDB records the outcome of scanning images: the detected block size
// and color census of each file, keyed by its CRC.
type ResultDB struct {
	db *sql.DB
}

// NewResultDB opens or creates the result database at file.
func NewResultDB(file string) (*ResultDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS scan (id INTEGER PRIMARY KEY NOT NULL, crc TEXT NOT NULL UNIQUE, path TEXT NOT NULL, block_width INTEGER NOT NULL, block_height INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS census (scan_id INTEGER NOT NULL, hex TEXT NOT NULL, count INTEGER NOT NULL, FOREIGN KEY(scan_id) REFERENCES scan(id))"); err != nil {
		return nil, err
	}

	return &ResultDB{
		db: db,
	}, nil
}

func (db *ResultDB) Close() error {
	return db.db.Close()
}

// AddResult records the scan of one file. A CRC that is already present is
// left untouched.
func (db *ResultDB) AddResult(crc, path string, bs pixel.BlockSize, report pixel.Report) error {
	id, added, err := db.addScan(crc, path, bs)
	if err != nil || !added {
		return err
	}

	for _, e := range report.Entries {
		if _, err := db.db.Exec("INSERT INTO census (scan_id, hex, count) VALUES (?, ?, ?)", id, e.Color.Hex(), e.Count); err != nil {
			return err
		}
	}
	return nil
}

func (db *ResultDB) addScan(crc, path string, bs pixel.BlockSize) (int64, bool, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM scan WHERE crc = ?", crc).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO scan (crc, path, block_width, block_height) VALUES (?, ?, ?, ?)", crc, path, bs.Width, bs.Height)
		if err != nil {
			return 0, false, err
		}
		id, err = result.LastInsertId()
		return id, true, err
	case nil:
		return id, false, nil
	default:
		return 0, false, err
	}
}

// FindBlockSizeByCRC returns the recorded block size for a file CRC, or
// nil if the file has not been scanned.
func (db *ResultDB) FindBlockSizeByCRC(crc string) (*pixel.BlockSize, error) {
	var bs pixel.BlockSize
	switch err := db.db.QueryRow("SELECT block_width, block_height FROM scan WHERE crc = ?", crc).Scan(&bs.Width, &bs.Height); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &bs, nil
	default:
		return nil, err
	}
}

// FindCensusByCRC returns the recorded color census for a file CRC, most
// frequent color first, or an empty report if the file has not been
// scanned.
func (db *ResultDB) FindCensusByCRC(crc string) (pixel.Report, error) {
	rows, err := db.db.Query("SELECT c.hex, c.count FROM census AS c JOIN scan AS s ON c.scan_id = s.id WHERE s.crc = ? ORDER BY c.count DESC, c.hex ASC", crc)
	if err != nil {
		return pixel.Report{}, err
	}
	defer rows.Close()

	var report pixel.Report
	for rows.Next() {
		var h string
		var count int
		if err := rows.Scan(&h, &count); err != nil {
			return pixel.Report{}, err
		}
		c, err := pixel.ParseHex(h)
		if err != nil {
			return pixel.Report{}, err
		}
		report.Entries = append(report.Entries, pixel.CensusEntry{Color: c, Count: count})
	}
	return report, rows.Err()
}
