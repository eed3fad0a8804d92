package handlers

import (
	"testing"

	"github.com/inmohub/realty-api/internal/models"
)

func cat(id uint, name string, parent *uint) models.Category {
	return models.Category{ID: id, Name: name, Slug: name, ParentID: parent}
}

func pid(id uint) *uint { return &id }

func TestBuildTree_NestsChildren(t *testing.T) {
	tree := buildTree([]models.Category{
		cat(1, "residencial", nil),
		cat(2, "casas", pid(1)),
		cat(3, "departamentos", pid(1)),
		cat(4, "comercial", nil),
	})

	if len(tree) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree))
	}

	var residencial *CategoryNode
	for i := range tree {
		if tree[i].Name == "residencial" {
			residencial = &tree[i]
		}
	}
	if residencial == nil {
		t.Fatal("residencial root missing")
	}
	if len(residencial.Children) != 2 {
		t.Fatalf("expected 2 children under residencial, got %d", len(residencial.Children))
	}
}

func TestBuildTree_DepthCapped(t *testing.T) {
	// Chain of 8 linked categories; only maxTreeDepth levels materialize.
	var categories []models.Category
	categories = append(categories, cat(1, "n1", nil))
	for id := uint(2); id <= 8; id++ {
		parent := id - 1
		categories = append(categories, cat(id, "n", &parent))
	}

	tree := buildTree(categories)
	if len(tree) != 1 {
		t.Fatalf("expected a single root, got %d", len(tree))
	}

	depth := 1
	node := tree[0]
	for len(node.Children) > 0 {
		node = node.Children[0]
		depth++
	}
	if depth != maxTreeDepth {
		t.Fatalf("expected depth capped at %d, got %d", maxTreeDepth, depth)
	}
}

func TestBuildTree_EmptyInput(t *testing.T) {
	if tree := buildTree(nil); len(tree) != 0 {
		t.Fatalf("expected empty tree, got %d roots", len(tree))
	}
}
