package replay

import "strings"

const httpProtocol = "http"

// BindActionParent links every action item to its owning plan.
func BindActionParent(actions []*ActionItem, plan *Plan) {
	for _, action := range actions {
		action.Parent = plan
	}
}

// BindCaseParent links every case item to its owning action item.
// The action's target instances are de-duplicated first, and each case
// inherits the action's type.
func BindCaseParent(cases []*ActionCaseItem, parent *ActionItem) {
	if len(cases) == 0 {
		return
	}
	parent.TargetInstances = FilterTargetInstances(parent.TargetInstances)
	for _, caseItem := range cases {
		caseItem.CaseType = parent.ActionType
		caseItem.Parent = parent
	}
}

// FilterTargetInstances keeps one instance per IP address. When several
// instances share an address only the one speaking plain http survives; if
// none does, the address is dropped. Groups keep the order in which their
// address first appears.
func FilterTargetInstances(instances []ServiceInstance) []ServiceInstance {
	if len(instances) == 0 {
		return []ServiceInstance{}
	}

	var order []string
	groups := make(map[string][]ServiceInstance)
	for _, instance := range instances {
		if _, seen := groups[instance.IP]; !seen {
			order = append(order, instance.IP)
		}
		groups[instance.IP] = append(groups[instance.IP], instance)
	}

	filtered := make([]ServiceInstance, 0, len(order))
	for _, ip := range order {
		group := groups[ip]
		if len(group) == 1 {
			filtered = append(filtered, group[0])
			continue
		}
		for _, instance := range group {
			if strings.EqualFold(instance.Protocol, httpProtocol) {
				filtered = append(filtered, instance)
				break
			}
		}
	}
	return filtered
}
