package catalog

import (
	"context"
	"fmt"
	"log/slog"

	models "treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	catalogSvc "treelink/internal/domain/services/catalog"
)

const (
	noParent      = -1
	missingParent = -2
)

// folderNode is one folder of the checker's arena. parent indexes into the
// same arena, or holds noParent / missingParent.
type folderNode struct {
	folder *models.Folder
	parent int
}

// CheckConsistency inspects the folders of one structure for dangling
// parents, parent cycles, materialized path mismatches and duplicate sibling
// codes. It never modifies the folders.
func CheckConsistency(structure *models.Structure, folders []models.Folder) models.ConsistencyReport {
	report := models.ConsistencyReport{
		TotalFolders: len(folders),
		Issues:       []string{},
		Details:      []models.Issue{},
		IsConsistent: true,
	}
	if structure != nil {
		report.Structure = structure.Name
		report.StructureID = structure.ID
	}

	byID := make(map[string]int, len(folders))
	for i := range folders {
		byID[folders[i].ID] = i
	}

	arena := make([]folderNode, len(folders))
	for i := range folders {
		node := folderNode{folder: &folders[i], parent: noParent}
		if pid := folders[i].ParentID; pid != nil {
			if j, ok := byID[*pid]; ok {
				node.parent = j
			} else {
				node.parent = missingParent
				report.Add(models.Issue{
					Kind:     models.IssueDanglingParent,
					FolderID: folders[i].ID,
					Message: fmt.Sprintf("folder %q (%s) references missing parent %s",
						folders[i].Name, folders[i].Code, *pid),
				})
			}
		}
		arena[i] = node
	}

	checkCycles(arena, &report)
	checkPaths(arena, &report)
	checkDuplicateCodes(arena, &report)

	return report
}

// checkCycles walks every parent chain. The walk stops on a repeated node and
// never takes more steps than there are folders.
func checkCycles(arena []folderNode, report *models.ConsistencyReport) {
	for i := range arena {
		visited := map[int]bool{i: true}
		cur := arena[i].parent
		for steps := 0; cur >= 0 && steps < len(arena); steps++ {
			if visited[cur] {
				f := arena[i].folder
				report.Add(models.Issue{
					Kind:     models.IssueCycle,
					FolderID: f.ID,
					Message:  fmt.Sprintf("cycle detected in parent chain of folder %q (%s)", f.Name, f.Code),
				})
				break
			}
			visited[cur] = true
			cur = arena[cur].parent
		}
	}
}

func checkPaths(arena []folderNode, report *models.ConsistencyReport) {
	for i := range arena {
		node := arena[i]
		if node.parent == missingParent {
			continue
		}
		var parent *models.Folder
		if node.parent >= 0 {
			parent = arena[node.parent].folder
		}
		expected := models.ExpectedPath(parent, node.folder.Code)
		if expected != node.folder.MaterializedPath {
			report.Add(models.Issue{
				Kind:     models.IssuePathMismatch,
				FolderID: node.folder.ID,
				Message: fmt.Sprintf("path mismatch for folder %q: expected %s, got %s",
					node.folder.Name, expected, node.folder.MaterializedPath),
				Expected: expected,
				Actual:   node.folder.MaterializedPath,
			})
		}
	}
}

func checkDuplicateCodes(arena []folderNode, report *models.ConsistencyReport) {
	type siblingKey struct {
		parentID string
		code     string
	}

	groups := make(map[siblingKey][]int)
	var order []siblingKey
	for i := range arena {
		key := siblingKey{code: arena[i].folder.Code}
		if pid := arena[i].folder.ParentID; pid != nil {
			key.parentID = *pid
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	for _, key := range order {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		var message string
		if key.parentID == "" {
			message = fmt.Sprintf("duplicate code %q among %d root folders", key.code, len(members))
		} else {
			parentName := key.parentID
			if j := arena[members[0]].parent; j >= 0 {
				parentName = arena[j].folder.Name
			}
			message = fmt.Sprintf("duplicate code %q among %d folders in %q", key.code, len(members), parentName)
		}
		report.Add(models.Issue{
			Kind:     models.IssueDuplicateCode,
			FolderID: arena[members[0]].folder.ID,
			Message:  message,
		})
	}
}

// consistencyService implements the ConsistencyService interface
type consistencyService struct {
	structures catalogRepo.StructureRepository
	folders    catalogRepo.FolderRepository
	logs       catalogRepo.ImportLogRepository
	logger     *slog.Logger
}

// NewConsistencyService creates a new consistency check service
func NewConsistencyService(
	structures catalogRepo.StructureRepository,
	folders catalogRepo.FolderRepository,
	logs catalogRepo.ImportLogRepository,
	logger *slog.Logger,
) catalogSvc.ConsistencyService {
	return &consistencyService{
		structures: structures,
		folders:    folders,
		logs:       logs,
		logger:     logger,
	}
}

// Check runs the consistency diagnostic over one structure
func (s *consistencyService) Check(ctx context.Context, structureID string, userID *string) (*models.ConsistencyReport, error) {
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

	report := CheckConsistency(structure, folders)

	message := fmt.Sprintf("consistency check of %q: %d issues", structure.Name, report.IssuesFound)
	if err := s.logs.Append(ctx, &models.ImportLog{
		Operation:      models.OperationValidate,
		Filename:       structure.Name,
		Message:        message,
		ItemsProcessed: report.TotalFolders,
		UserID:         userID,
	}); err != nil {
		// The report is still valid without its audit record
		s.logger.Warn("failed to record consistency check", "structure_id", structureID, "error", err)
	}

	s.logger.Info("consistency check completed",
		"structure_id", structureID,
		"folders", report.TotalFolders,
		"issues", report.IssuesFound,
	)

	return &report, nil
}
