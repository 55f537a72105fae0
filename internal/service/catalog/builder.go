package catalog

import (
	"context"
	"errors"

	"github.com/beevik/etree"

	"treelink/internal/config"
	"treelink/internal/domain"
	models "treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	"treelink/internal/xmlparse"
)

// cacheKey identifies a folder element already handled during one import
type cacheKey struct {
	structureID string
	code        string
	parentID    string // "root" at the top level
}

// folderTreeBuilder turns folder elements into stored folders for one
// import. The arena and its index live only as long as the import.
type folderTreeBuilder struct {
	folders   catalogRepo.FolderRepository
	structure *models.Structure
	arena     []*models.Folder
	index     map[cacheKey]int
}

func newFolderTreeBuilder(folders catalogRepo.FolderRepository, structure *models.Structure) *folderTreeBuilder {
	return &folderTreeBuilder{
		folders:   folders,
		structure: structure,
		index:     make(map[cacheKey]int),
	}
}

// build stores the folder described by el under parent (nil = root), then
// recurses into its child folders. The same (code, parent) pair seen twice in
// one import is processed once.
//
// Folders are upserted by (structure, code): an existing folder gets the new
// name, path and attributes but keeps its parent.
func (b *folderTreeBuilder) build(ctx context.Context, el *etree.Element, parent *models.Folder) (*models.Folder, error) {
	parsed := xmlparse.ReadFolder(el)

	key := cacheKey{structureID: b.structure.ID, code: parsed.Code, parentID: "root"}
	if parent != nil {
		key.parentID = parent.ID
	}
	if i, ok := b.index[key]; ok {
		return b.arena[i], nil
	}

	if err := checkLength("folder name", parsed.Name, config.MaxFolderNameLength); err != nil {
		return nil, err
	}
	if err := checkLength("folder code", parsed.Code, config.MaxCodeLength); err != nil {
		return nil, err
	}

	path := models.ExpectedPath(parent, parsed.Code)

	folder, err := b.folders.GetByCode(ctx, b.structure.ID, parsed.Code)
	switch {
	case err == nil:
		folder.Name = parsed.Name
		folder.MaterializedPath = path
		folder.Attributes = parsed.Attributes
		if err := b.folders.Update(ctx, folder); err != nil {
			return nil, err
		}
	case errors.Is(err, domain.ErrNotFound):
		folder = &models.Folder{
			StructureID:      b.structure.ID,
			Code:             parsed.Code,
			Name:             parsed.Name,
			MaterializedPath: path,
			Attributes:       parsed.Attributes,
		}
		if parent != nil {
			folder.ParentID = stringPtr(parent.ID)
		}
		if err := b.folders.Create(ctx, folder); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	b.index[key] = len(b.arena)
	b.arena = append(b.arena, folder)

	for _, child := range xmlparse.ChildFolders(el) {
		if _, err := b.build(ctx, child, folder); err != nil {
			return nil, err
		}
	}

	return folder, nil
}
