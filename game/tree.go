package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TreeNode is one position of an explicit game tree. A node without children is
// terminal.
type TreeNode struct {
	Name     string             `yaml:"name" json:"name"`
	Scores   map[string]float64 `yaml:"scores" json:"scores"`
	Children []*TreeNode        `yaml:"children,omitempty" json:"children,omitempty"`
}

// Tree adapts a TreeNode to State. Scores missing from a child are inherited
// from its parent when the tree is loaded.
type Tree struct {
	Node *TreeNode
}

// LoadTree reads a YAML game tree from path.
func LoadTree(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree file: %w", err)
	}
	return ParseTree(data)
}

// ParseTree decodes a YAML game tree.
func ParseTree(data []byte) (*Tree, error) {
	var root TreeNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}
	return NewTree(&root)
}

// NewTree fills in inherited scores below root. Null nodes are rejected.
func NewTree(root *TreeNode) (*Tree, error) {
	if root == nil {
		return nil, errors.New("tree has no root")
	}
	if len(root.Scores) == 0 {
		return nil, fmt.Errorf("tree root %q has no scores", root.Name)
	}
	if err := inheritScores(root, nil); err != nil {
		return nil, err
	}
	return &Tree{Node: root}, nil
}

func inheritScores(node *TreeNode, parent map[string]float64) error {
	if node.Scores == nil {
		node.Scores = make(map[string]float64, len(parent))
	}
	for player, score := range parent {
		if _, ok := node.Scores[player]; !ok {
			node.Scores[player] = score
		}
	}
	for i, child := range node.Children {
		if child == nil {
			return fmt.Errorf("tree node %q has a null child at %d", node.Name, i)
		}
		if err := inheritScores(child, node.Scores); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) IsTerminal() bool {
	return len(t.Node.Children) == 0
}

func (t *Tree) Scores() map[string]float64 {
	scores := make(map[string]float64, len(t.Node.Scores))
	for player, score := range t.Node.Scores {
		scores[player] = score
	}
	return scores
}

func (t *Tree) LegalActions() []Action {
	actions := make([]Action, 0, len(t.Node.Children))
	for i := range t.Node.Children {
		actions = append(actions, Branch{from: t.Node, Index: i})
	}
	return actions
}

func (t *Tree) String() string {
	return t.Node.Name
}

// Branch moves to the Index-th child of the node it was generated from.
type Branch struct {
	from  *TreeNode
	Index int
}

func (b Branch) Next() State {
	return &Tree{Node: b.from.Children[b.Index]}
}

func (b Branch) String() string {
	if name := b.from.Children[b.Index].Name; name != "" {
		return name
	}
	return fmt.Sprintf("#%d", b.Index)
}
