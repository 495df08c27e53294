package listview

// ActionKind names what a render-tree handler does when triggered.
type ActionKind int

const (
	ActionToggleGroup ActionKind = iota
	ActionMarkAllPicked
	ActionMarkAllUnpicked
	ActionSetPicked
	ActionSwipe
)

func (k ActionKind) String() string {
	switch k {
	case ActionToggleGroup:
		return "toggle-group"
	case ActionMarkAllPicked:
		return "mark-all-picked"
	case ActionMarkAllUnpicked:
		return "mark-all-unpicked"
	case ActionSetPicked:
		return "set-picked"
	case ActionSwipe:
		return "swipe"
	default:
		return "unknown"
	}
}

// Action is a handler attached to a node. Platform is set for group actions,
// Row for item actions, Picked is the target state of ActionSetPicked.
type Action struct {
	Kind     ActionKind
	Platform string
	Row      int
	Picked   bool
}

type Button struct {
	Label  string
	Action Action
}

type ItemNode struct {
	Item
	Toggle Action
	Swipe  Action
}

type GroupNode struct {
	Platform string
	Color    string
	Expanded bool
	Header   Action
	Toolbar  []Button
	Items    []ItemNode
}

type Tree struct {
	Groups []GroupNode
}

// Collapse tracks which platform cards are hidden. The zero value shows every group.
type Collapse struct {
	hidden map[string]bool
}

func (c Collapse) Expanded(platform string) bool { return !c.hidden[platform] }

// Toggle flips a group and reports whether it is now expanded.
func (c *Collapse) Toggle(platform string) bool {
	if c.hidden == nil {
		c.hidden = make(map[string]bool)
	}
	if c.hidden[platform] {
		delete(c.hidden, platform)
		return true
	}
	c.hidden[platform] = true
	return false
}

// Render builds the render tree for groups. colorOf picks the card colour.
func Render(groups []Group, collapse Collapse, colorOf func(platform string) string) Tree {
	tree := Tree{Groups: make([]GroupNode, 0, len(groups))}
	for _, g := range groups {
		node := GroupNode{
			Platform: g.Platform,
			Color:    colorOf(g.Platform),
			Expanded: collapse.Expanded(g.Platform),
			Header:   Action{Kind: ActionToggleGroup, Platform: g.Platform},
			Toolbar: []Button{
				{Label: "Picked", Action: Action{Kind: ActionMarkAllPicked, Platform: g.Platform}},
				{Label: "Unpicked", Action: Action{Kind: ActionMarkAllUnpicked, Platform: g.Platform}},
			},
			Items: make([]ItemNode, 0, len(g.Items)),
		}
		for _, it := range g.Items {
			node.Items = append(node.Items, ItemNode{
				Item:   it,
				Toggle: Action{Kind: ActionSetPicked, Row: it.SheetRow, Picked: !it.Picked},
				Swipe:  Action{Kind: ActionSwipe, Row: it.SheetRow},
			})
		}
		tree.Groups = append(tree.Groups, node)
	}
	return tree
}
