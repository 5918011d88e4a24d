package parsing

// Sample postings shaped like real LinkedIn, Indeed and generic board pages.

const linkedInSample = `
<!DOCTYPE html>
<html>
<head>
    <title>Senior Backend Engineer at Tech Company | LinkedIn</title>
</head>
<body>
    <div class="job-details-jobs-unified-top-card">
        <h1 class="topcard-layout__title">Senior Backend Engineer</h1>
        <div class="company-name">
            <a data-test-company-name="Tech Company">Tech Company</a>
        </div>
        <div class="job-details-jobs-unified-top-card__location">
            <span>San Francisco, CA</span>
            <span class="topcard__flavor--bullet">(Remote)</span>
        </div>
        <div class="job-details-jobs-unified-top-card__salary">
            $150,000 - $200,000 per year
        </div>
    </div>
    <div class="job-details__main-content" data-test-job-description>
        <h2>About the Role</h2>
        <p>We are looking for a Senior Backend Engineer to join our growing team.</p>
        
        <h3>Requirements</h3>
        <ul>
            <li>5+ years of Python experience</li>
            <li>Experience with AWS cloud services</li>
            <li>Kubernetes deployment and management</li>
            <li>PostgreSQL database design and optimization</li>
            <li>RESTful API development</li>
            <li>Microservices architecture</li>
        </ul>
        
        <h3>Responsibilities</h3>
        <ul>
            <li>Design and implement scalable APIs</li>
            <li>Mentor junior engineers</li>
            <li>Participate in code reviews</li>
            <li>Collaborate with product team</li>
            <li>Optimize system performance</li>
        </ul>
        
        <h3>Benefits</h3>
        <ul>
            <li>Health, dental, and vision insurance</li>
            <li>401(k) matching</li>
            <li>Unlimited PTO</li>
        </ul>
    </div>
</body>
</html>
`

const indeedSample = `
<!DOCTYPE html>
<html>
<head>
    <title>Software Engineer - Google - Indeed</title>
</head>
<body>
    <div class="jobsearch-JobInfoHeader">
        <h1 class="jobsearch-JobInfoHeader-title">Software Engineer</h1>
        <div class="jobsearch-InlineCompanyRating">
            <span data-company-name="Google">Google</span>
        </div>
        <div class="jobsearch-JobInfoHeader-subtitle">
            Mountain View, CA
        </div>
    </div>
    <div class="jobsearch-SalaryMessage" data-tn-element="salaryInfo">
        $180,000 - $250,000 a year
    </div>
    <div id="jobDescriptionText" data-tn-element="jobDescription">
        <p>Join our team as a Software Engineer.</p>
        
        <p><b>Requirements:</b></p>
        <ul>
            <li>Bachelor's degree in Computer Science or related field</li>
            <li>3+ years of software development experience</li>
            <li>Proficiency in Java, Python, or Go</li>
            <li>Experience with distributed systems</li>
            <li>Strong problem-solving skills</li>
        </ul>
        
        <p><b>Responsibilities:</b></p>
        <ul>
            <li>Develop and maintain large-scale systems</li>
            <li>Write clean, efficient code</li>
            <li>Collaborate with cross-functional teams</li>
            <li>Debug and resolve technical issues</li>
        </ul>
        
        <p><b>Benefits:</b></p>
        <ul>
            <li>Competitive salary and equity</li>
            <li>Comprehensive health coverage</li>
            <li>Free meals and snacks</li>
        </ul>
    </div>
</body>
</html>
`

const genericSample = `
<!DOCTYPE html>
<html>
<head>
    <title>Full Stack Developer - StartupXYZ</title>
</head>
<body>
    <h1>Full Stack Developer</h1>
    <p>Company: StartupXYZ</p>
    <p>Location: New York, NY (Hybrid)</p>
    <p>Salary: $120,000 - $160,000 per year</p>
    
    <h2>Requirements</h2>
    <ul>
        <li>3+ years of JavaScript experience</li>
        <li>React and Node.js proficiency</li>
        <li>SQL and NoSQL databases</li>
        <li>Git version control</li>
    </ul>
    
    <h2>Responsibilities</h2>
    <ul>
        <li>Build and maintain web applications</li>
        <li>Work with design team on UI/UX</li>
        <li>Write unit and integration tests</li>
    </ul>
</body>
</html>
`

const remoteSample = `
<!DOCTYPE html>
<html>
<body>
    <h1>Remote Python Developer</h1>
    <p>Company: RemoteFirst Inc</p>
    <p>Location: 100% Remote - Work from Home</p>
    
    <h2>About This Position</h2>
    <p>This is a fully remote position. We are a remote-first company.</p>
    
    <h2>Requirements</h2>
    <ul>
        <li>Python 3.8+</li>
        <li>Django or FastAPI</li>
        <li>PostgreSQL</li>
    </ul>
</body>
</html>
`
