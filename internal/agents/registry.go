package agents

import "fmt"

// Agent is one chat-capable deployment on the Kite service. ServiceID and
// Subnet route the inference call, Room scopes the conversation, TopicFile
// names the local message pool. TxFallback marks the agent that, with an
// empty pool, is fed a transaction-hash question instead of being skipped.
type Agent struct {
	Name       string
	ServiceID  string
	Subnet     string
	Room       string
	TopicFile  string
	TxFallback bool
}

var roster = []Agent{
	{Name: "Professor", ServiceID: "deployment_BSfolnHm0er7rNprjQWYgNhQ", Subnet: "kite_ai_labs", Room: "ProfessorRoom", TopicFile: "pesan_professor.txt"},
	{Name: "Crypto Buddy", ServiceID: "deployment_l3QYj1avTiZz2vH2daFJBGu1", Subnet: "kite_ai_labs", Room: "CryptoBuddyRoom", TopicFile: "pesan_cryptobuddy.txt"},
	{Name: "Sherlock", ServiceID: "deployment_OX7sn2D0WvxGUGK8CTqsU5VJ", Subnet: "kite_ai_labs", Room: "SherlockRoom", TopicFile: "pesan_sherlock.txt", TxFallback: true},
	{Name: "Zane", ServiceID: "deployment_zF2OStYBycSdlr9seHxMNlKM", Subnet: "ai_veronica", Room: "ZaneRoom", TopicFile: "pesan_zane.txt"},
	{Name: "Vyn", ServiceID: "deployment_wOzmAZlquWg8S8HbXIO4tFew", Subnet: "ai_veronica", Room: "VynRoom", TopicFile: "pesan_vyn.txt"},
	{Name: "Avril", ServiceID: "deployment_KCLCuQQ85zB1xuGWdEeOZhN9", Subnet: "ai_veronica", Room: "AvrilRoom", TopicFile: "pesan_avril.txt"},
	{Name: "Noa", ServiceID: "deployment_EWs2Pqns7kau4hl3ouzZuIs6", Subnet: "ai_veronica", Room: "NoaRoom", TopicFile: "pesan_noa.txt"},
	{Name: "Diane", ServiceID: "deployment_c1PPnuoFzDKQ0O50KK0HFAkS", Subnet: "ai_veronica", Room: "DianeRoom", TopicFile: "pesan_diane.txt"},
	{Name: "Sakura", ServiceID: "deployment_KeGij2dTzbjtWLqMMWWccyGk", Subnet: "ai_veronica", Room: "SakuraRoom", TopicFile: "pesan_sakura.txt"},
}

// Roster returns the agents in their fixed chat order.
func Roster() []Agent {
	out := make([]Agent, len(roster))
	copy(out, roster)
	return out
}

// Lookup finds an agent by name.
func Lookup(name string) (Agent, error) {
	for _, ag := range roster {
		if ag.Name == name {
			return ag, nil
		}
	}
	return Agent{}, fmt.Errorf("unknown agent %q", name)
}

// Validate checks the roster is usable: unique names, complete routing
// fields per agent. Run once at startup.
func Validate() error {
	if len(roster) == 0 {
		return fmt.Errorf("agent roster is empty")
	}
	seen := make(map[string]bool, len(roster))
	for _, ag := range roster {
		if ag.Name == "" {
			return fmt.Errorf("agent with empty name")
		}
		if seen[ag.Name] {
			return fmt.Errorf("duplicate agent %q", ag.Name)
		}
		seen[ag.Name] = true
		if ag.ServiceID == "" || ag.Subnet == "" || ag.Room == "" {
			return fmt.Errorf("agent %q is missing routing fields", ag.Name)
		}
		if ag.TopicFile == "" {
			return fmt.Errorf("agent %q has no topic file", ag.Name)
		}
	}
	return nil
}
