package skills

import (
	"sync"

	"github.com/droidmind/droidmind/pkg/logger"
)

// Registry holds skills in declaration order. Routing is stateless and
// first-match-wins: the earliest registered skill whose predicate accepts the
// input handles it, regardless of any later matches.
type Registry struct {
	ordered []Skill
	byID    map[string]Skill
	mu      sync.RWMutex
}

func NewRegistry(skills ...Skill) *Registry {
	r := &Registry{byID: make(map[string]Skill)}
	for _, skill := range skills {
		r.Register(skill)
	}
	return r
}

func (r *Registry) Register(skill Skill) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := skill.Manifest().ID
	if _, exists := r.byID[id]; exists {
		logger.WarnCF("skills", "Duplicate skill registration ignored",
			map[string]interface{}{"skill": id})
		return
	}
	r.ordered = append(r.ordered, skill)
	r.byID[id] = skill
}

// Match returns the first skill whose predicate accepts the input.
func (r *Registry) Match(input string) (Skill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, skill := range r.ordered {
		if skill.Matches(input) {
			return skill, true
		}
	}
	return nil, false
}

func (r *Registry) Get(id string) (Skill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	skill, ok := r.byID[id]
	return skill, ok
}

// Manifests lists registered skills in declaration order.
func (r *Registry) Manifests() []Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Manifest, 0, len(r.ordered))
	for _, skill := range r.ordered {
		out = append(out, skill.Manifest())
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}

// Builtin returns the standard skill set in its canonical declaration order.
// Order matters: it is the routing priority.
func Builtin() *Registry {
	return NewRegistry(
		NewFoodDeliverySkill(),
		NewSystemControlSkill(),
		NewDeviceInfoSkill(),
	)
}
