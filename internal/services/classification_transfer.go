package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fondspod/fondspod/internal/database"
	sqldb "github.com/fondspod/fondspod/internal/database/sqlc"
)

// ClassificationNode is the interchange form of a top-level node. Children is
// always encoded, empty or not.
type ClassificationNode struct {
	Code     string               `json:"code"`
	Name     string               `json:"name"`
	IsActive bool                 `json:"is_active"`
	Children []ClassificationLeaf `json:"children"`
}

// ClassificationLeaf is the interchange form of a second-level node.
type ClassificationLeaf struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type importNode struct {
	Code     string       `json:"code"`
	Name     string       `json:"name"`
	IsActive *bool        `json:"is_active"`
	Children []importNode `json:"children"`
}

func (n importNode) active() bool {
	return n.IsActive == nil || *n.IsActive
}

// ExportTree returns the whole tree in display order.
func (s *ClassificationService) ExportTree(ctx context.Context) ([]ClassificationNode, error) {
	tops, err := s.ListTop(ctx)
	if err != nil {
		return nil, err
	}

	tree := make([]ClassificationNode, 0, len(tops))
	for _, top := range tops {
		children, err := s.ListChildren(ctx, top.Code)
		if err != nil {
			return nil, err
		}
		node := ClassificationNode{
			Code:     top.Code,
			Name:     top.Name,
			IsActive: top.Active,
			Children: make([]ClassificationLeaf, 0, len(children)),
		}
		for _, child := range children {
			node.Children = append(node.Children, ClassificationLeaf{
				Code:     child.Code,
				Name:     child.Name,
				IsActive: child.Active,
			})
		}
		tree = append(tree, node)
	}
	return tree, nil
}

// ExportJSON renders ExportTree as indented JSON.
func (s *ClassificationService) ExportJSON(ctx context.Context) ([]byte, error) {
	tree, err := s.ExportTree(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode classification tree: %w", err)
	}
	return data, nil
}

// ImportJSON replaces the whole tree with the document in one transaction.
// Sort orders follow document position within each sibling group and a
// missing is_active means active. The import is refused with ErrProtected
// when a fond would be left pointing at a code the document drops.
func (s *ClassificationService) ImportJSON(ctx context.Context, data []byte) error {
	var doc []importNode
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("import classifications: %v: %w", err, database.ErrMalformedInput)
	}
	if err := validateImport(doc); err != nil {
		return err
	}

	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		if err := q.DeferForeignKeys(txCtx); err != nil {
			return database.TranslateError("import classifications: defer foreign keys", err)
		}
		if err := q.DeleteAllClassifications(txCtx); err != nil {
			return database.TranslateError("import classifications: clear tree", err)
		}

		for i, top := range doc {
			if err := s.insertImported(txCtx, q, top, "", int64(i)); err != nil {
				return err
			}
			for j, child := range top.Children {
				if err := s.insertImported(txCtx, q, child, top.Code, int64(j)); err != nil {
					return err
				}
			}
		}

		orphaned, err := q.CountOrphanedFonds(txCtx)
		if err != nil {
			return database.TranslateError("import classifications: check fonds", err)
		}
		if orphaned > 0 {
			return fmt.Errorf("import classifications: %d fonds reference codes missing from the document: %w", orphaned, database.ErrProtected)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug("classifications imported", "top_level", len(doc))
	return nil
}

func (s *ClassificationService) insertImported(ctx context.Context, q *sqldb.Queries, node importNode, parentCode string, order int64) error {
	err := q.InsertClassificationAt(ctx, sqldb.InsertClassificationAtParams{
		Code:           node.Code,
		Name:           node.Name,
		ParentCode:     database.NullString(parentCode),
		Active:         database.BoolToInt64(node.active()),
		SortOrder:      order,
		CreatedBy:      s.auditor.User,
		CreatedMachine: s.auditor.Machine,
	})
	if err != nil {
		return database.TranslateError(fmt.Sprintf("import classification %q", node.Code), err)
	}
	return nil
}

func validateImport(doc []importNode) error {
	for i, top := range doc {
		if err := validateImportNode(top, fmt.Sprintf("[%d]", i)); err != nil {
			return err
		}
		for j, child := range top.Children {
			path := fmt.Sprintf("[%d].children[%d]", i, j)
			if err := validateImportNode(child, path); err != nil {
				return err
			}
			if len(child.Children) > 0 {
				return fmt.Errorf("import classifications: %s has children but the tree is two levels deep: %w", path, database.ErrMalformedInput)
			}
		}
	}
	return nil
}

func validateImportNode(node importNode, path string) error {
	if strings.TrimSpace(node.Code) == "" {
		return fmt.Errorf("import classifications: %s is missing code: %w", path, database.ErrMalformedInput)
	}
	if strings.TrimSpace(node.Name) == "" {
		return fmt.Errorf("import classifications: %s is missing name: %w", path, database.ErrMalformedInput)
	}
	return nil
}
