package service

import (
	"testing"

	"zapdash/internal/gateway"
	"zapdash/internal/models"
	"zapdash/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instanceRecord(fields map[string]interface{}) gateway.Instance {
	return gateway.NewInstance(fields)
}

func TestBuildConnectionView(t *testing.T) {
	admin := repository.Viewer{UserID: "admin-1", IsAdmin: true}
	member := repository.Viewer{UserID: "user-7", IsAdmin: false}

	t.Run("registered instance carries local ownership", func(t *testing.T) {
		teamID := uint(3)
		instances := []gateway.Instance{
			instanceRecord(map[string]interface{}{"name": "sales1", "status": "connected", "token": "remote-tok"}),
		}
		rows := []models.Connection{{
			InstanceName: "sales1",
			UserID:       "user-7",
			Token:        "abc",
			TeamID:       &teamID,
			Team:         &models.Team{Name: "Sales"},
		}}
		rows[0].ID = 42

		merged := BuildConnectionView(instances, rows, admin)
		require.Len(t, merged, 1)

		conn := merged[0]
		assert.Equal(t, "42", conn.ID)
		assert.Equal(t, "sales1", conn.InstanceName)
		assert.Equal(t, StatusOpen, conn.Status)
		assert.True(t, conn.IsRegistered)
		assert.Equal(t, "user-7", conn.UserID)
		assert.Equal(t, "abc", conn.Token)
		require.NotNil(t, conn.TeamID)
		assert.Equal(t, uint(3), *conn.TeamID)
		assert.Equal(t, "Sales", conn.TeamName)
	})

	t.Run("status collapses to two values", func(t *testing.T) {
		instances := []gateway.Instance{
			instanceRecord(map[string]interface{}{"name": "a", "status": "connected"}),
			instanceRecord(map[string]interface{}{"name": "b", "status": "open"}),
			instanceRecord(map[string]interface{}{"name": "c", "status": "connecting"}),
			instanceRecord(map[string]interface{}{"name": "d"}),
		}

		merged := BuildConnectionView(instances, nil, admin)
		require.Len(t, merged, 4)
		assert.Equal(t, StatusOpen, merged[0].Status)
		assert.Equal(t, StatusOpen, merged[1].Status)
		assert.Equal(t, StatusDisconnected, merged[2].Status)
		assert.Equal(t, StatusDisconnected, merged[3].Status)
	})

	t.Run("admin sees unregistered instance as unassigned with temp id", func(t *testing.T) {
		instances := []gateway.Instance{
			instanceRecord(map[string]interface{}{"name": "stray", "status": "close", "token": "remote-tok"}),
		}

		merged := BuildConnectionView(instances, nil, admin)
		require.Len(t, merged, 1)

		conn := merged[0]
		assert.Equal(t, "temp-stray", conn.ID)
		assert.Equal(t, UnassignedOwner, conn.UserID)
		assert.False(t, conn.IsRegistered)
		assert.Equal(t, "remote-tok", conn.Token)
	})

	t.Run("non-admin does not see unregistered instances", func(t *testing.T) {
		instances := []gateway.Instance{
			instanceRecord(map[string]interface{}{"name": "mine", "status": "open"}),
			instanceRecord(map[string]interface{}{"name": "stray", "status": "open"}),
		}
		rows := []models.Connection{{InstanceName: "mine", UserID: "user-7", Token: "abc"}}
		rows[0].ID = 7

		merged := BuildConnectionView(instances, rows, member)
		require.Len(t, merged, 1)
		assert.Equal(t, "mine", merged[0].InstanceName)
		assert.Equal(t, "user-7", merged[0].UserID)
	})

	t.Run("non-admin with no visible rows sees nothing", func(t *testing.T) {
		instances := []gateway.Instance{
			instanceRecord(map[string]interface{}{"name": "sales1", "status": "open"}),
		}
		merged := BuildConnectionView(instances, nil, member)
		assert.Empty(t, merged)
	})

	t.Run("local row without remote instance is dropped", func(t *testing.T) {
		instances := []gateway.Instance{
			instanceRecord(map[string]interface{}{"name": "alive", "status": "open"}),
		}
		rows := []models.Connection{
			{InstanceName: "alive", UserID: "user-7"},
			{InstanceName: "ghost", UserID: "user-7"},
		}
		rows[0].ID = 1
		rows[1].ID = 2

		merged := BuildConnectionView(instances, rows, admin)
		require.Len(t, merged, 1)
		assert.Equal(t, "alive", merged[0].InstanceName)
	})

	t.Run("empty gateway list yields empty view", func(t *testing.T) {
		rows := []models.Connection{{InstanceName: "sales1", UserID: "user-7"}}
		merged := BuildConnectionView(nil, rows, admin)
		assert.Empty(t, merged)
	})

	t.Run("remote token kept when local row has none", func(t *testing.T) {
		instances := []gateway.Instance{
			instanceRecord(map[string]interface{}{"name": "sales1", "status": "open", "token": "remote-tok"}),
		}
		rows := []models.Connection{{InstanceName: "sales1", UserID: "user-7"}}
		rows[0].ID = 9

		merged := BuildConnectionView(instances, rows, admin)
		require.Len(t, merged, 1)
		assert.Equal(t, "remote-tok", merged[0].Token)
	})
}
