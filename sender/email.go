package sender

import "fmt"

const (
	downloadEmailSubject = "Your SimpleSight Download Links"
	downloadWindowDays   = 30
)

// DownloadEmail composes the plaintext fulfillment email. The body is
// deterministic for a given origin and purchase id; download links are
// scoped under the purchase id so the API can audit and expire them.
func DownloadEmail(origin, purchaseID string) (subject, body string) {
	downloadBaseURL := fmt.Sprintf("%s/api/download/%s", origin, purchaseID)

	body = fmt.Sprintf(`Thanks for your purchase! Download your SimpleSight installers below:

SERVER INSTALLER (~130MB)
%s/server

AGENT INSTALLER (~20-25MB)
%s/agent

DOCUMENTATION
- README: https://arbinquiry.com/docs/README.txt
- Deployment Guide: https://arbinquiry.com/docs/DEPLOYMENT_GUIDE.txt
- Network Configuration: https://arbinquiry.com/docs/NETWORK_CONFIGURATION.txt
- Troubleshooting: https://arbinquiry.com/docs/TROUBLESHOOTING.txt

These links will work for %d days. Need new links?
Email support@arbinquiry.com with your purchase confirmation.

- The ArbInq Team`, downloadBaseURL, downloadBaseURL, downloadWindowDays)

	return downloadEmailSubject, body
}
