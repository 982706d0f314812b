package claim

import "fmt"

// QueuedStatus renders the routing status of a complex claim.
func QueuedStatus(priority int) string {
	return fmt.Sprintf(queuedStatusFormat, priority)
}

//Personal.AI order the ending
