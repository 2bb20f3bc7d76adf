// Package seed holds the built-in datasets of both dashboard variants.
package seed

import (
	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/models"
)

// For returns a fresh copy of the built-in dataset of a variant.
func For(v inbox.Variant) models.Dataset {
	if v == inbox.VariantLabeled {
		return Labeled()
	}
	return Classic()
}

// Classic is the profile-filtered dashboard's dataset.
func Classic() models.Dataset {
	return models.Dataset{
		Conversations: []models.Conversation{
			{ID: "1", Type: "General", Participants: []string{"Admin", "Tanya Lamba"}, Status: "Open", Resolved: false},
			{ID: "2", Type: "Order #627852", Participants: []string{"Admin", "Tanya Lamba"}, Status: "Open", Resolved: true},
			{ID: "3", Type: "General", Participants: []string{"Admin", "Gurav"}, Status: "Open", Resolved: false},
			{ID: "4", Type: "Order #627853", Participants: []string{"Contractor", "Admin"}, Status: "Open", Resolved: false},
			{ID: "5", Type: "General", Participants: []string{"Worker", "Admin"}, Status: "Open", Resolved: true},
			{ID: "6", Type: "Order #627854", Participants: []string{"Worker", "Admin"}, Status: "Open", Resolved: false},
		},
		Messages: []models.Message{
			{ID: "m1", ConversationID: "1", Sender: "Tanya Lamba", Content: `Please check your bill and tap the "Confirm Order" button to confirm your order.`, Timestamp: "Apr 24, 16:55 PM"},
			{ID: "m2", ConversationID: "2", Sender: "Tanya Lamba", Content: "I am checking the availability of medicines now...", Timestamp: "Apr 24, 16:55 PM"},
			{ID: "m3", ConversationID: "3", Sender: "Gurav", Content: "We have the same medicine with the...", Timestamp: "Apr 24, 16:50 PM"},
			{ID: "m4", ConversationID: "4", Sender: "Contractor", Content: "Order status update...", Timestamp: "Apr 24, 16:45 PM"},
			{ID: "m5", ConversationID: "5", Sender: "Worker", Content: "General query...", Timestamp: "Apr 24, 16:40 PM"},
			{ID: "m6", ConversationID: "6", Sender: "Worker", Content: "Order #627854 details...", Timestamp: "Apr 24, 16:35 PM"},
		},
		Orders: orders(),
	}
}

// Labeled is the label-filtered dashboard's dataset.
func Labeled() models.Dataset {
	return models.Dataset{
		Conversations: []models.Conversation{
			{ID: "1", Type: "General", Participants: []string{"Admin", "Tanya Lamba"}, Status: "Open", Resolved: false, Inbox: "Medicine Delivery", Label: models.LabelOrderReceived},
			{ID: "2", Type: "Order #627852", Participants: []string{"Admin", "Tanya Lamba"}, Status: "Open", Resolved: true, Inbox: "Medicine Delivery", Label: models.LabelOrderBilled},
			{ID: "3", Type: "General", Participants: []string{"Admin", "Gurav"}, Status: "Open", Resolved: false, Inbox: "Support"},
			{ID: "4", Type: "Order #627853", Participants: []string{"Contractor", "Admin"}, Status: "Open", Resolved: false, Inbox: "Medicine Delivery", Label: models.LabelOrderDelivered},
			{ID: "5", Type: "General", Participants: []string{"Worker", "Admin"}, Status: "Open", Resolved: true, Inbox: "Support"},
			{ID: "6", Type: "Order #627854", Participants: []string{"Worker", "Admin"}, Status: "Open", Resolved: false, Inbox: "Medicine Delivery", Label: models.LabelOrderReceived},
		},
		Messages: []models.Message{
			{ID: "m1", ConversationID: "1", Sender: "Tanya Lamba", Content: `Please check your bill and tap the "Confirm Order" button to confirm your order.`, Timestamp: "Apr 24, 16:55 PM"},
			{ID: "m2", ConversationID: "2", Sender: "Tanya Lamba", Content: "I am checking the availability of medicines now...", Timestamp: "Apr 24, 16:55 PM"},
			{ID: "m3", ConversationID: "3", Sender: "Gurav", Content: "We have the same medicine with the...", Timestamp: "Apr 24, 16:50 PM"},
			{ID: "m4", ConversationID: "4", Sender: "Contractor", Content: "Order status update...", Timestamp: "Apr 24, 16:45 PM"},
			{ID: "m5", ConversationID: "5", Sender: "Worker", Content: "General query...", Timestamp: "Apr 24, 16:40 PM"},
			{ID: "m6", ConversationID: "6", Sender: "Worker", Content: "Order #627854 details...", Timestamp: "Apr 24, 16:35 PM"},
			{ID: "m7", ConversationID: "2", Sender: "Admin", Content: "Your bill is ready. Net payable is ₹ 471.50 after discount.", Timestamp: "Apr 24, 16:58 PM"},
			{ID: "m8", ConversationID: "4", Sender: "Admin", Content: "Delivered to the site office this morning.", Timestamp: "Apr 24, 16:47 PM"},
		},
		Orders: orders(),
	}
}

func orders() map[string]models.OrderDetail {
	return map[string]models.OrderDetail{
		"2": {
			Items:      []string{"Mederma PM Intensive Overnight Scar Cream - Win Medicare Pvt Ltd", "1 Tube of 10 Gm x 1 = ₹ 485.00"},
			Total:      "₹ 485.00",
			Shipping:   "₹ 35.00",
			NetPayable: "₹ 520.00 = ₹ 471.50",
		},
		"4": {
			Items:      []string{"Generic Medicine - Supplier X", "2 Units x ₹ 200.00 = ₹ 400.00"},
			Total:      "₹ 400.00",
			Shipping:   "₹ 30.00",
			NetPayable: "₹ 430.00",
		},
		"6": {
			Items:      []string{"Medicine Y - Supplier Z", "1 Unit x ₹ 150.00 = ₹ 150.00"},
			Total:      "₹ 150.00",
			Shipping:   "₹ 20.00",
			NetPayable: "₹ 170.00",
		},
	}
}
