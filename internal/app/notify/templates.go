package notify

// Email bodies mirror the dashboard's look: inline styles, no external
// assets. Placeholders are filled with fmt.Sprintf.

const statusUpdateTemplate = `
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #333; font-size: 24px;">Request Status Update</h1>
  <p style="color: #555; font-size: 16px;">Hello %s,</p>
  <p style="color: #555; font-size: 16px;">
    Your automation request <strong>%s</strong> has been updated.
  </p>
  <div style="margin: 20px 0; padding: 20px; border: 1px solid #e5e5e5; border-radius: 5px;">
    <p style="margin: 0; font-size: 14px;">Status changed from:</p>
    <p style="font-size: 16px; margin: 5px 0 15px 0;"><strong>%s</strong></p>
    <p style="margin: 0; font-size: 14px;">To:</p>
    <p style="margin: 5px 0; font-size: 18px;">
      <span style="background-color: %s; color: white; padding: 5px 10px; border-radius: 3px;">
        <strong>%s</strong>
      </span>
    </p>
  </div>
  <p style="color: #555; font-size: 16px;">
    You can view the full details of your request in your dashboard.
  </p>
  <p style="color: #555; font-size: 16px;">
    Thank you for using our services.
  </p>
  <p style="color: #555; font-size: 16px;">
    Best regards,<br>
    The ProcessPilot Team
  </p>
</div>`

const confirmationTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #111827; font-size: 22px;">Thanks for submitting your request</h1>
  <p style="color: #4b5563; font-size: 16px;">Hi %s,</p>
  <p style="color: #4b5563; font-size: 16px; line-height: 1.6;">
    We've successfully received your automation request <strong>%s</strong>.
    Our ProcessPilot team is now reviewing the details and will follow up shortly.
  </p>
  <p style="color: #4b5563; font-size: 16px; line-height: 1.6;">
    You'll receive another email as soon as your request is approved or declined, and
    we'll keep you updated on the next steps throughout the process.
  </p>
  <p style="color: #4b5563; font-size: 16px; line-height: 1.6;">
    If you have any additional information to share in the meantime, just reply to this email.
  </p>
  <p style="color: #4b5563; font-size: 16px; line-height: 1.6;">
    Cheers,<br/>
    The ProcessPilot Team
  </p>
</div>`

const credentialsNoticeTemplate = `
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #333; font-size: 24px;">New Platform Credentials Submitted</h1>
  <p style="color: #555; font-size: 16px;">
    %s has submitted credentials for <strong>%s</strong>.
  </p>
  <div style="margin: 20px 0; padding: 20px; border: 1px solid #e5e5e5; border-radius: 5px;">
    <p style="margin: 10px 0;"><strong>Request ID:</strong> %s</p>
  </div>
  <p style="color: #555; font-size: 16px;">
    Please check the admin dashboard.
  </p>
</div>`

const consultationTemplate = `
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #333; font-size: 24px;">New Consultation Request</h1>
  <p style="color: #555; font-size: 16px;">
    %s from %s has requested a consultation about their automation needs.
  </p>
  <div style="margin: 20px 0; padding: 20px; border: 1px solid #e5e5e5; border-radius: 5px;">
    <p style="margin: 0; font-weight: bold;">Client Details:</p>
    <ul style="list-style-type: none; padding-left: 0;">
      <li style="margin: 10px 0;"><strong>Name:</strong> %s</li>
      <li style="margin: 10px 0;"><strong>Email:</strong> %s</li>
      <li style="margin: 10px 0;"><strong>Company:</strong> %s</li>
      <li style="margin: 10px 0;"><strong>Request ID:</strong> %s</li>
      <li style="margin: 10px 0;"><strong>Preferred Contact Method:</strong> %s</li>
    </ul>
  </div>
  <p style="color: #555; font-size: 16px;">
    Please schedule a meeting with the client at your earliest convenience.
  </p>
</div>`
