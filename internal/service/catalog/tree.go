package catalog

import (
	"context"
	"log/slog"
	"sort"

	models "treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	catalogSvc "treelink/internal/domain/services/catalog"
)

// treeService implements the TreeService interface
type treeService struct {
	structures catalogRepo.StructureRepository
	folders    catalogRepo.FolderRepository
	logger     *slog.Logger
}

// NewTreeService creates a new folder tree service
func NewTreeService(
	structures catalogRepo.StructureRepository,
	folders catalogRepo.FolderRepository,
	logger *slog.Logger,
) catalogSvc.TreeService {
	return &treeService{
		structures: structures,
		folders:    folders,
		logger:     logger,
	}
}

// GetFolderTree builds the nested folder tree of a structure
func (s *treeService) GetFolderTree(ctx context.Context, structureID string) (*models.FolderTree, error) {
	if err := requireID("structure", structureID); err != nil {
		return nil, err
	}

	structure, err := s.structures.GetByID(ctx, structureID)
	if err != nil {
		return nil, err
	}

	folders, err := s.folders.ListByStructure(ctx, structureID)
	if err != nil {
		return nil, err
	}

	roots := BuildFolderTree(folders)

	s.logger.Debug("folder tree built",
		"structure_id", structureID,
		"folders", len(folders),
		"roots", len(roots),
	)

	return &models.FolderTree{
		Structure: models.StructureSummary{
			ID:          structure.ID,
			Name:        structure.Name,
			Description: structure.Description,
		},
		Tree: roots,
	}, nil
}

// BuildFolderTree nests a flat folder list under its null-parent folders.
// Each level is ordered by code, then name. Folders whose parent chain
// never reaches a root (dangling or cyclic) are left out.
func BuildFolderTree(folders []models.Folder) []*models.FolderTreeNode {
	// Pass 1: one node per folder
	nodes := make(map[string]*models.FolderTreeNode, len(folders))
	for i := range folders {
		f := &folders[i]
		attrs := f.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		nodes[f.ID] = &models.FolderTreeNode{
			ID:               f.ID,
			Name:             f.Name,
			Code:             f.Code,
			MaterializedPath: f.MaterializedPath,
			Attributes:       attrs,
			Children:         []*models.FolderTreeNode{},
		}
	}

	// Pass 2: link children to parents
	roots := []*models.FolderTreeNode{}
	for i := range folders {
		f := &folders[i]
		node := nodes[f.ID]
		if f.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*f.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	// Pass 3: order every reachable level and set has_children
	visited := make(map[string]bool, len(nodes))
	var finish func(level []*models.FolderTreeNode)
	finish = func(level []*models.FolderTreeNode) {
		sortTreeLevel(level)
		for _, node := range level {
			if visited[node.ID] {
				continue
			}
			visited[node.ID] = true
			node.HasChildren = len(node.Children) > 0
			finish(node.Children)
		}
	}
	finish(roots)

	return roots
}

func sortTreeLevel(level []*models.FolderTreeNode) {
	sort.SliceStable(level, func(i, j int) bool {
		a, b := level[i], level[j]
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
