package masters

import "testing"

func TestUpdateSetUpdateQuery(t *testing.T) {
	var u updateSet
	u.add("agent_name", "Tex")
	u.add("deal_percent", 0.5)

	query, args := u.updateQuery("agents", "agent_id", int64(7))
	want := "UPDATE agents SET agent_name = $1, deal_percent = $2 WHERE agent_id = $3"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 3 {
		t.Fatalf("args = %v, want 3 values", args)
	}
	if args[2] != int64(7) {
		t.Fatalf("key arg = %v, want 7", args[2])
	}
}

func TestUpdateSetInsertQuery(t *testing.T) {
	var u updateSet
	u.add("player_name", "alice")
	u.add("agent_id", int64(3))

	query, args := u.insertQuery("players", "player_id")
	want := "INSERT INTO players (player_name, agent_id) VALUES ($1, $2) RETURNING player_id"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v, want 2 values", args)
	}
}

func TestUpdateSetEmpty(t *testing.T) {
	var u updateSet
	if !u.empty() {
		t.Fatal("fresh set should be empty")
	}
	u.add("is_blocked", true)
	if u.empty() {
		t.Fatal("set with a column should not be empty")
	}
}
