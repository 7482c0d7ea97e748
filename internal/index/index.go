// Package index persists the definitions of analyzed documents in a
// SQLite database for workspace-wide lookup.
package index

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/symbols"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

// Document is an indexed source file.
type Document struct {
	ID        uint   `gorm:"primaryKey"`
	URI       string `gorm:"uniqueIndex;not null"`
	Dialect   string
	Hash      string
	UpdatedAt time.Time
}

// Definition is one indexed symbol.
type Definition struct {
	ID         uint `gorm:"primaryKey"`
	DocumentID uint `gorm:"index;not null"`
	Document   *Document

	Name      string
	NameKey   string `gorm:"index"` // lower-cased Name
	Kind      string
	Container string // dotted path of the enclosing class or function
	Detail    string
	Doc       string

	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
}

// Range returns the source range of the definition.
func (d *Definition) Range() syntax.Range {
	return syntax.MakeRange(syntax.NewPos(d.StartLine, d.StartCol), syntax.NewPos(d.EndLine, d.EndCol))
}

// QualifiedName returns Container.Name, or Name at the top level.
func (d *Definition) QualifiedName() string {
	if d.Container == "" {
		return d.Name
	}
	return d.Container + "." + d.Name
}

// Store is a symbol index backed by SQLite.
type Store struct {
	db *gorm.DB
}

// Open opens or creates the index database at path. Use ":memory:" for a
// private in-memory index.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.New(slogWriter{}, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Document{}, &Definition{}); err != nil {
		return nil, fmt.Errorf("migrate index %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Hash returns the content hash stored with source text.
func Hash(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// Put replaces the definitions of the document uri with those of table.
func (s *Store) Put(uri string, d syntax.Dialect, hash string, table *symbols.Table) error {
	defs := Definitions(table)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var doc Document
		if err := tx.Where(&Document{URI: uri}).FirstOrCreate(&doc).Error; err != nil {
			return err
		}
		doc.Dialect = d.String()
		doc.Hash = hash
		if err := tx.Save(&doc).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", doc.ID).Delete(&Definition{}).Error; err != nil {
			return err
		}
		if len(defs) == 0 {
			return nil
		}
		for i := range defs {
			defs[i].DocumentID = doc.ID
		}
		return tx.CreateInBatches(&defs, 100).Error
	})
	if err != nil {
		return fmt.Errorf("index %s: %w", uri, err)
	}
	slog.Debug("indexed", "uri", uri, "definitions", len(defs))
	return nil
}

// Document returns the indexed document uri, or nil if it is not indexed.
func (s *Store) Document(uri string) (*Document, error) {
	var doc Document
	err := s.db.Where(&Document{URI: uri}).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", uri, err)
	}
	return &doc, nil
}

// Documents returns all indexed documents ordered by URI.
func (s *Store) Documents() ([]Document, error) {
	var docs []Document
	if err := s.db.Order("uri").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	return docs, nil
}

// Remove deletes the document uri and its definitions.
func (s *Store) Remove(uri string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var doc Document
		err := tx.Where(&Document{URI: uri}).First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", doc.ID).Delete(&Definition{}).Error; err != nil {
			return err
		}
		return tx.Delete(&doc).Error
	})
}

// Lookup returns the definitions named name, compared case-insensitively.
func (s *Store) Lookup(name string) ([]Definition, error) {
	var defs []Definition
	err := s.db.Preload("Document").
		Where("name_key = ?", symbols.Key(name)).
		Order("document_id, start_line, start_col").
		Find(&defs).Error
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}
	return defs, nil
}

// Search returns up to limit definitions whose names fuzzily match
// query, best matches first. A limit <= 0 means no limit.
func (s *Store) Search(query string, limit int) ([]Definition, error) {
	var all []Definition
	if err := s.db.Preload("Document").Order("id").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("search %s: %w", query, err)
	}

	names := make([]string, len(all))
	for i := range all {
		names[i] = all[i].Name
	}
	ranks := fuzzy.RankFindFold(query, names)
	sort.Stable(ranks)

	var defs []Definition
	for _, r := range ranks {
		if limit > 0 && len(defs) == limit {
			break
		}
		defs = append(defs, all[r.OriginalIndex])
	}
	return defs, nil
}

// Definitions lists the symbols of table that are visible outside their
// function: everything at global and class level plus functions and
// classes wherever they are declared. Parameters and locals are left
// out.
func Definitions(table *symbols.Table) []Definition {
	var defs []Definition
	for _, sym := range table.Symbols() {
		scope := table.Scope(sym.Scope())
		if !exported(sym, scope) {
			continue
		}
		r := sym.Range()
		defs = append(defs, Definition{
			Name:      sym.Name(),
			NameKey:   symbols.Key(sym.Name()),
			Kind:      sym.Kind().String(),
			Container: container(scope),
			Detail:    symbols.Describe(sym),
			Doc:       sym.Doc(),
			StartLine: r.Start.Line(),
			StartCol:  r.Start.Col(),
			EndLine:   r.End.Line(),
			EndCol:    r.End.Col(),
		})
	}
	return defs
}

func exported(sym symbols.Symbol, scope *symbols.Scope) bool {
	switch sym.(type) {
	case *symbols.Func, *symbols.Class:
		return true
	case *symbols.Param:
		return false
	}
	switch scope.Kind() {
	case symbols.GlobalScope, symbols.ClassScope:
		return true
	}
	return false
}

// container returns the dotted names of the scopes enclosing a symbol.
func container(scope *symbols.Scope) string {
	var names []string
	for s := scope; s != nil; s = s.Enclosing() {
		if s.Name() != "" {
			names = append(names, s.Name())
		}
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ".")
}

// slogWriter routes gorm's log output to slog.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	slog.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "index")
}
